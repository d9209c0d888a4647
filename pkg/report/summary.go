package report

import (
	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/filter"
)

// Count counts records under mode. Work-center counting ignores the "Sin ID"
// sentinel.
func Count(records []events.Record, mode Counting) int {
	if mode != CountWorkCenters {
		return len(records)
	}
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.WorkCenterID == events.NoID {
			continue
		}
		seen[r.WorkCenterID] = struct{}{}
	}
	return len(seen)
}

// Summary is the row of headline metrics above the charts.
type Summary struct {
	Label        string   `json:"label"`
	Mode         Counting `json:"mode"`
	Total        int      `json:"total"`
	Qualitative  int      `json:"qualitative"`
	Quantitative int      `json:"quantitative"`
	// BusiestMonth is empty when there are no records.
	BusiestMonth      string `json:"busiest_month"`
	BusiestMonthCount int    `json:"busiest_month_count"`
}

// Summarize computes the headline metrics of an already filtered set.
func Summarize(records []events.Record, sel filter.Selection, c Classifier) Summary {
	mode, _ := c.Mode(sel)
	s := Summary{
		Label:        "Total Evaluaciones",
		Mode:         mode,
		Total:        Count(records, mode),
		Qualitative:  Count(filter.ByKind(records, events.Qualitative), mode),
		Quantitative: Count(filter.ByKind(records, events.Quantitative), mode),
	}
	if mode == CountWorkCenters {
		s.Label = "Total Centros de Trabajo"
	}
	s.BusiestMonth, s.BusiestMonthCount = busiestMonth(records)
	return s
}

// busiestMonth returns the month name with most events; ties go to the month
// seen first.
func busiestMonth(records []events.Record) (string, int) {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := counts[r.MonthName]; !ok {
			order = append(order, r.MonthName)
		}
		counts[r.MonthName]++
	}
	best, bestCount := "", 0
	for _, m := range order {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best, bestCount
}
