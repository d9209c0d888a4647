package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ist-ho/progdash/internal/metrics"
	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/sheets"
	"github.com/ist-ho/progdash/pkg/storage"
)

// Snapshot is everything one load cycle produced. It is never modified after
// Load returns.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	SourceURL string
	ExportURL string
	Table     *sheets.Table
	Events    []events.Record
	Schema    events.Schema
}

// TableFetcher downloads and parses a CSV export.
type TableFetcher interface {
	Fetch(ctx context.Context, exportURL string) (*sheets.Table, error)
}

// LoadRecorder persists load attempts.
type LoadRecorder interface {
	RecordLoad(ctx context.Context, run storage.LoadRun) error
}

// Loader fetches the configured spreadsheet and reshapes it.
type Loader struct {
	sourceURL string
	exportURL string
	fetcher   TableFetcher

	// Recorder and Metrics are optional.
	Recorder LoadRecorder
	Metrics  *metrics.Metrics
}

// NewLoader derives the export URL up front, so a malformed sheet URL is a
// startup error rather than a per-request one.
func NewLoader(sheetURL string, fetcher TableFetcher) (*Loader, error) {
	if strings.TrimSpace(sheetURL) == "" {
		return nil, &sheets.ConfigurationError{Key: "gsheets.url", Reason: "not set"}
	}
	exportURL, err := sheets.BuildExportURL(sheetURL)
	if err != nil {
		return nil, err
	}
	return &Loader{sourceURL: sheetURL, exportURL: exportURL, fetcher: fetcher}, nil
}

func (l *Loader) SourceURL() string { return l.sourceURL }
func (l *Loader) ExportURL() string { return l.exportURL }

// Load runs one complete load cycle.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	run := storage.LoadRun{
		LoadID:    uuid.NewString(),
		StartedAt: time.Now(),
		SourceURL: l.sourceURL,
		ExportURL: l.exportURL,
	}
	log := utils.Log.WithFields(logrus.Fields{"load_id": run.LoadID, "url": l.exportURL})

	snap, err := l.load(ctx, run.LoadID, run.StartedAt)
	run.Duration = time.Since(run.StartedAt)
	if err != nil {
		run.Error = err.Error()
		log.WithError(err).Error("Spreadsheet load failed")
	} else {
		run.RawRows = len(snap.Table.Rows)
		run.Events = len(snap.Events)
		log.WithFields(logrus.Fields{
			"rows":     run.RawRows,
			"events":   run.Events,
			"duration": run.Duration.Round(time.Millisecond),
		}).Info("Spreadsheet loaded")
	}

	l.observe(run)
	if l.Recorder != nil {
		if rerr := l.Recorder.RecordLoad(ctx, run); rerr != nil {
			log.WithError(rerr).Warn("Could not record load run")
		}
	}
	return snap, err
}

func (l *Loader) load(ctx context.Context, id string, started time.Time) (*Snapshot, error) {
	table, err := l.fetcher.Fetch(ctx, l.exportURL)
	if err != nil {
		var dsErr *sheets.DataSourceError
		if errors.As(err, &dsErr) {
			dsErr.SourceURL = l.sourceURL
			return nil, dsErr
		}
		return nil, &sheets.DataSourceError{SourceURL: l.sourceURL, ExportURL: l.exportURL, Err: err}
	}

	schema, err := events.NewSchema(table)
	if err != nil {
		return nil, err
	}
	for _, col := range schema.Absent() {
		utils.Log.WithField("column", col).Debug("Optional column absent, related filters disabled")
	}

	return &Snapshot{
		ID:        id,
		FetchedAt: started,
		SourceURL: l.sourceURL,
		ExportURL: l.exportURL,
		Table:     table,
		Events:    events.Reshape(table, schema),
		Schema:    schema,
	}, nil
}

func (l *Loader) observe(run storage.LoadRun) {
	if l.Metrics == nil {
		return
	}
	l.Metrics.Loads.WithLabelValues(run.Status()).Inc()
	l.Metrics.LoadDuration.Observe(run.Duration.Seconds())
	if run.Error == "" {
		l.Metrics.RawRows.Set(float64(run.RawRows))
		l.Metrics.Events.Set(float64(run.Events))
	}
}
