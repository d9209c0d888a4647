package report

import (
	"sort"

	"github.com/ist-ho/progdash/pkg/events"
)

// MonthlyPoint is one bar of the monthly chart.
type MonthlyPoint struct {
	Month     int         `json:"month"`
	MonthName string      `json:"month_name"`
	Kind      events.Kind `json:"kind"`
	Count     int         `json:"count"`
}

// MonthlyChart carries the monthly bars and their display labels.
type MonthlyChart struct {
	Title  string         `json:"title"`
	YLabel string         `json:"y_label"`
	Points []MonthlyPoint `json:"points"`
}

// Monthly groups records by (month, kind). Under work-center counting each
// group counts distinct work-center IDs, otherwise rows. Empty groups are
// never emitted; points follow calendar order, qualitative before
// quantitative within a month.
func Monthly(records []events.Record, mode Counting, rule Rule) MonthlyChart {
	type key struct {
		month int
		kind  events.Kind
	}
	rows := make(map[key]int)
	ids := make(map[key]map[string]struct{})
	for _, r := range records {
		k := key{r.Month, r.Kind}
		rows[k]++
		if ids[k] == nil {
			ids[k] = make(map[string]struct{})
		}
		ids[k][r.WorkCenterID] = struct{}{}
	}

	chart := MonthlyChart{
		Title:  "Carga Mensual de Evaluaciones",
		YLabel: "Cantidad de Evaluaciones",
		Points: make([]MonthlyPoint, 0, len(rows)),
	}
	if mode == CountWorkCenters {
		chart.Title = "Carga Mensual de Centros de Trabajo (" + rule.Label + ")"
		chart.YLabel = "Cantidad de Centros de Trabajo"
	}

	for k, n := range rows {
		if mode == CountWorkCenters {
			n = len(ids[k])
		}
		if n == 0 {
			continue
		}
		chart.Points = append(chart.Points, MonthlyPoint{
			Month:     k.month,
			MonthName: events.MonthName(k.month),
			Kind:      k.kind,
			Count:     n,
		})
	}
	sort.Slice(chart.Points, func(i, j int) bool {
		a, b := chart.Points[i], chart.Points[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return kindOrder(a.Kind) < kindOrder(b.Kind)
	})
	return chart
}

func kindOrder(k events.Kind) int {
	for i, kk := range events.Kinds {
		if kk == k {
			return i
		}
	}
	return len(events.Kinds)
}

// LabelCount is a label with its number of occurrences.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopProtocols counts events per protocol, skipping "Sin Protocolo", and
// returns the n largest, largest first. Ties are broken by name.
func TopProtocols(records []events.Record, n int) []LabelCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Protocol == events.NoProtocol {
			continue
		}
		counts[r.Protocol]++
	}
	return topN(counts, n)
}

func topN(counts map[string]int, n int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, c := range counts {
		out = append(out, LabelCount{Label: label, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
