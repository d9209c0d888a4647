package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Loads        *prometheus.CounterVec
	LoadDuration prometheus.Summary
	CacheLookups *prometheus.CounterVec
	Events       prometheus.Gauge
	RawRows      prometheus.Gauge
	Exports      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "progdash",
			Name:      "loads_total",
			Help:      "Spreadsheet load attempts by status",
		}, []string{"status"}),
		LoadDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "progdash",
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching and reshaping the spreadsheet",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "progdash",
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result",
		}, []string{"result"}),
		Events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "progdash",
			Name:      "events",
			Help:      "Evaluation events in the current snapshot",
		}),
		RawRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "progdash",
			Name:      "raw_rows",
			Help:      "Rows in the current spreadsheet snapshot",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "progdash",
			Name:      "exports_total",
			Help:      "Detail exports served by table mode",
		}, []string{"mode"}),
	}
	reg.MustRegister(m.Loads, m.LoadDuration, m.CacheLookups, m.Events, m.RawRows, m.Exports)
	return m
}
