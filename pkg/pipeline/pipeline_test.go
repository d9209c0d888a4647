package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ist-ho/progdash/internal/metrics"
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/report"
	"github.com/ist-ho/progdash/pkg/sheets"
	"github.com/ist-ho/progdash/pkg/storage"
)

const sheetURL = "https://docs.google.com/spreadsheets/d/abc123/edit#gid=77"

var header = []string{
	sheets.ColWorkCenterID, sheets.ColQualitativeDate, sheets.ColQuantitativeDate,
	sheets.ColProtocol, sheets.ColRegion, sheets.ColAgent, sheets.ColRiskLevel,
	sheets.ColCommune, sheets.ColBranch, sheets.ColEmployerRut, sheets.ColEmployerName,
	sheets.ColAnnex, sheets.ColManagement,
}

func fixtureTable() *sheets.Table {
	row := func(id, qual, quant, protocol, agent string) []string {
		return []string{id, qual, quant, protocol, "Maule", agent, "Alto", "Talca", "Sucursal Talca", "76.000.000-0", "Agrícola SpA", "Anexo 1", "Sur"}
	}
	return sheets.NewTable(header, [][]string{
		row("CT-9", "10-03-2026", "", "PLAGUICIDAS", "Glifosato"),
		row("CT-9", "10-03-2026", "", "PLAGUICIDAS", "Paraquat"),
		row("CT-9", "10-03-2026", "", "PLAGUICIDAS", "Mancozeb"),
		row("CT-1", "", "4/2/2026", "RUIDO", "Ruido"),
	})
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
	table *sheets.Table
	url   string
}

func (f *fakeFetcher) Fetch(ctx context.Context, exportURL string) (*sheets.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.url = exportURL
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

type fakeRecorder struct {
	runs []storage.LoadRun
}

func (r *fakeRecorder) RecordLoad(ctx context.Context, run storage.LoadRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func TestNewLoader_Config(t *testing.T) {
	var cfgErr *sheets.ConfigurationError
	if _, err := NewLoader("", &fakeFetcher{}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for empty URL, got %v", err)
	}
	if _, err := NewLoader("https://example.com/sheet", &fakeFetcher{}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for bad URL, got %v", err)
	}
}

func TestLoader_Load(t *testing.T) {
	f := &fakeFetcher{table: fixtureTable()}
	l, err := NewLoader(sheetURL, f)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	rec := &fakeRecorder{}
	reg := prometheus.NewRegistry()
	l.Recorder = rec
	l.Metrics = metrics.New(reg)

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.url != "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=77" {
		t.Fatalf("fetched %q", f.url)
	}
	if snap.ID == "" || snap.SourceURL != sheetURL || len(snap.Events) != 4 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(rec.runs) != 1 || rec.runs[0].Status() != "ok" || rec.runs[0].Events != 4 || rec.runs[0].LoadID != snap.ID {
		t.Fatalf("unexpected recorded run %+v", rec.runs)
	}
	if v := testutil.ToFloat64(l.Metrics.Loads.WithLabelValues("ok")); v != 1 {
		t.Fatalf("loads_total{status=ok} = %v", v)
	}
	if v := testutil.ToFloat64(l.Metrics.Events); v != 4 {
		t.Fatalf("events gauge = %v", v)
	}
}

func TestLoader_FetchFailure(t *testing.T) {
	f := &fakeFetcher{err: &sheets.DataSourceError{ExportURL: "x", Err: errors.New("unexpected status 404 Not Found")}}
	l, _ := NewLoader(sheetURL, f)
	rec := &fakeRecorder{}
	l.Recorder = rec

	_, err := l.Load(context.Background())
	var dsErr *sheets.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.SourceURL != sheetURL {
		t.Fatalf("source URL not attached: %+v", dsErr)
	}
	if len(rec.runs) != 1 || rec.runs[0].Status() != "error" {
		t.Fatalf("failed load not recorded: %+v", rec.runs)
	}
}

func TestLoader_MissingColumns(t *testing.T) {
	f := &fakeFetcher{table: sheets.NewTable([]string{sheets.ColProtocol}, nil)}
	l, _ := NewLoader(sheetURL, f)
	_, err := l.Load(context.Background())
	var shapeErr *sheets.DataShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected DataShapeError, got %v", err)
	}
}

func TestService_CachesSnapshot(t *testing.T) {
	f := &fakeFetcher{table: fixtureTable()}
	l, _ := NewLoader(sheetURL, f)
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(l, time.Minute, m)
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	first, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	second, _ := svc.Snapshot(context.Background())
	if first != second || f.calls != 1 {
		t.Fatalf("expected cached snapshot, fetches = %d", f.calls)
	}

	clock = clock.Add(2 * time.Minute)
	third, _ := svc.Snapshot(context.Background())
	if third == first || f.calls != 2 {
		t.Fatalf("expected reload after TTL, fetches = %d", f.calls)
	}

	svc.Reload()
	svc.Snapshot(context.Background())
	if f.calls != 3 {
		t.Fatalf("expected reload after Reload, fetches = %d", f.calls)
	}
	if hits := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); hits != 1 {
		t.Fatalf("cache hits = %v", hits)
	}
}

func TestRefresher_KeepsSnapshotOnFailure(t *testing.T) {
	f := &fakeFetcher{table: fixtureTable()}
	l, _ := NewLoader(sheetURL, f)
	svc := NewService(l, time.Hour, nil)
	r := NewRefresher(svc, time.Hour)

	r.refresh(context.Background())
	if st := r.Last(); st == nil || !st.Success {
		t.Fatalf("unexpected status %+v", st)
	}
	good, _ := svc.Snapshot(context.Background())

	f.err = errors.New("boom")
	r.refresh(context.Background())
	if st := r.Last(); st.Success || !strings.HasSuffix(st.Err, "boom") {
		t.Fatalf("unexpected status %+v", st)
	}
	still, err := svc.Snapshot(context.Background())
	if err != nil || still != good {
		t.Fatal("failed refresh should keep serving the previous snapshot")
	}
}

func TestBuildView(t *testing.T) {
	f := &fakeFetcher{table: fixtureTable()}
	l, _ := NewLoader(sheetURL, f)
	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := report.DefaultClassifier()

	all := BuildView(snap, filter.Selection{}, c)
	if all.Matched != 4 || all.Summary.Total != 4 || all.Detail.Grouped {
		t.Fatalf("unexpected unfiltered view: matched=%d total=%d", all.Matched, all.Summary.Total)
	}

	pest := BuildView(snap, filter.Selection{Protocol: "PLAGUICIDAS"}, c)
	if pest.Matched != 3 || pest.Summary.Total != 1 || pest.Mode != report.CountWorkCenters {
		t.Fatalf("unexpected pesticide view: matched=%d total=%d mode=%s", pest.Matched, pest.Summary.Total, pest.Mode)
	}
	if !pest.Detail.Grouped || len(pest.Detail.Rows) != 1 {
		t.Fatalf("expected one grouped detail row, got %d", len(pest.Detail.Rows))
	}
	if len(pest.Options.Protocol) != 3 {
		t.Fatalf("options should come from the unfiltered snapshot: %v", pest.Options.Protocol)
	}
}
