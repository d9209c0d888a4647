package report

import (
	"sort"

	"github.com/ist-ho/progdash/pkg/events"
)

// Breakdown is a small two-column summary table.
type Breakdown struct {
	Title   string       `json:"title"`
	Columns [2]string    `json:"columns"`
	Rows    []LabelCount `json:"rows"`
}

// RegionBreakdown counts events per region, or distinct work centers per
// region (sorted by region) under work-center counting.
func RegionBreakdown(records []events.Record, mode Counting) Breakdown {
	if mode == CountWorkCenters {
		ids := make(map[string]map[string]struct{})
		for _, r := range records {
			if r.WorkCenterID == events.NoID {
				continue
			}
			if ids[r.Region] == nil {
				ids[r.Region] = make(map[string]struct{})
			}
			ids[r.Region][r.WorkCenterID] = struct{}{}
		}
		rows := make([]LabelCount, 0, len(ids))
		for region, set := range ids {
			rows = append(rows, LabelCount{Label: region, Count: len(set)})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
		return Breakdown{Title: "Por Región", Columns: [2]string{"Región", "Cantidad CT"}, Rows: rows}
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Region]++
	}
	return Breakdown{Title: "Por Región", Columns: [2]string{"Región", "Cantidad"}, Rows: topN(counts, 0)}
}

// AgentBreakdown returns the n most frequent agents (ignoring "Sin Agente"),
// or under work-center counting the n work centers with most agent rows.
func AgentBreakdown(records []events.Record, mode Counting, n int) Breakdown {
	counts := make(map[string]int)
	if mode == CountWorkCenters {
		for _, r := range records {
			if r.WorkCenterID != events.NoID {
				counts[r.WorkCenterID]++
			}
		}
		return Breakdown{
			Title:   "Agentes por CT",
			Columns: [2]string{"Centro de Trabajo", "Cantidad Agentes"},
			Rows:    topN(counts, n),
		}
	}

	for _, r := range records {
		if r.Agent != events.NoAgent {
			counts[r.Agent]++
		}
	}
	return Breakdown{Title: "Por Agente", Columns: [2]string{"Agente", "Cantidad"}, Rows: topN(counts, n)}
}
