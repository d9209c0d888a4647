package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
	"github.com/ist-ho/progdash/pkg/sheets"
)

type errorBody struct {
	Error     string   `json:"error"`
	SourceURL string   `json:"source_url,omitempty"`
	ExportURL string   `json:"export_url,omitempty"`
	Missing   []string `json:"missing_columns,omitempty"`
}

type summaryResponse struct {
	LoadID    string         `json:"load_id"`
	FetchedAt time.Time      `json:"fetched_at"`
	Matched   int            `json:"matched"`
	Summary   report.Summary `json:"summary"`
}

type breakdownsResponse struct {
	Regions report.Breakdown `json:"regions"`
	Agents  report.Breakdown `json:"agents"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.WithError(err).Debug("Could not write JSON response")
	}
}

// statusFor maps a load failure to an HTTP status.
func statusFor(err error) int {
	var dsErr *sheets.DataSourceError
	if errors.As(err, &dsErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) describe(err error) errorBody {
	body := errorBody{
		Error:     err.Error(),
		SourceURL: s.svc.SourceURL(),
		ExportURL: s.svc.ExportURL(),
	}
	var shapeErr *sheets.DataShapeError
	if errors.As(err, &shapeErr) {
		body.Missing = shapeErr.Missing
	}
	return body
}

// apiView loads the snapshot and computes the view for the request's filters.
// On failure it writes a JSON error and returns false.
func (s *Server) apiView(w http.ResponseWriter, r *http.Request) (pipeline.View, *pipeline.Snapshot, bool) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), s.describe(err))
		return pipeline.View{}, nil, false
	}
	sel := filter.FromQuery(r.URL.Query())
	return pipeline.BuildView(snap, sel, s.classifier), snap, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, snap, ok := s.apiView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		LoadID:    snap.ID,
		FetchedAt: snap.FetchedAt,
		Matched:   view.Matched,
		Summary:   view.Summary,
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if view, _, ok := s.apiView(w, r); ok {
		writeJSON(w, http.StatusOK, view.Monthly)
	}
}

func (s *Server) handleProtocols(w http.ResponseWriter, r *http.Request) {
	if view, _, ok := s.apiView(w, r); ok {
		writeJSON(w, http.StatusOK, view.TopProtocols)
	}
}

func (s *Server) handleBreakdowns(w http.ResponseWriter, r *http.Request) {
	if view, _, ok := s.apiView(w, r); ok {
		writeJSON(w, http.StatusOK, breakdownsResponse{Regions: view.Regions, Agents: view.Agents})
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	if view, _, ok := s.apiView(w, r); ok {
		writeJSON(w, http.StatusOK, view.Detail)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if view, _, ok := s.apiView(w, r); ok {
		writeJSON(w, http.StatusOK, view.Options)
	}
}

func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	if s.loads == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "load history is not enabled"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.loads.ListLoads(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	view := pipeline.BuildView(snap, filter.FromQuery(r.URL.Query()), s.classifier)

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, view.Detail); err != nil {
		utils.Log.WithError(err).Error("Could not build XLSX export")
		http.Error(w, "could not build export", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.Exports.WithLabelValues(string(view.Mode)).Inc()
	}

	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+view.Detail.FileName(s.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.svc.Reload()
	utils.Log.Info("Snapshot cache invalidated on request")
	target := "/"
	if err := r.ParseForm(); err == nil {
		if q := filter.FromQuery(r.Form).Query().Encode(); q != "" {
			target += "?" + q
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	sel := filter.FromQuery(r.URL.Query())
	view := pipeline.BuildView(snap, sel, s.classifier)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := DashboardPage(snap, view).Render(w); err != nil {
		utils.Log.WithError(err).Debug("Could not render dashboard")
	}
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if rerr := ErrorPage(s.describe(err)).Render(w); rerr != nil {
		utils.Log.WithError(rerr).Debug("Could not render error page")
	}
}
