package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/sheets"
)

// DateLayout is how dates are shown in detail tables and exports.
const DateLayout = "02-01-2006"

// Detail is the detailed table shown under the charts and offered for
// download. Rows hold display strings; Numeric marks the columns exported
// as numbers.
type Detail struct {
	Grouped    bool       `json:"grouped"`
	Sheet      string     `json:"sheet"`
	FilePrefix string     `json:"-"`
	Columns    []string   `json:"columns"`
	Rows       [][]string `json:"rows"`
	Numeric    []bool     `json:"-"`
}

// FileName is the download name of the export for a given day.
func (d Detail) FileName(now time.Time) string {
	return d.FilePrefix + now.Format("20060102") + ".xlsx"
}

// BuildDetail builds the grouped table under work-center counting and the
// flat table otherwise.
func BuildDetail(records []events.Record, schema events.Schema, mode Counting) Detail {
	if mode == CountWorkCenters {
		return groupedDetail(records, schema)
	}
	return flatDetail(records, schema)
}

type workCenterGroup struct {
	first  events.Record
	agents map[string]struct{}
}

func groupedDetail(records []events.Record, schema events.Schema) Detail {
	d := Detail{
		Grouped:    true,
		Sheet:      "Detalle_Plaguicidas",
		FilePrefix: "detalle_plaguicidas_ct_",
		Columns: []string{
			"ID Centro de Trabajo", "Fecha", "Tipo", "Nombre empleador", "Sucursal",
			"Protocolo", "Región", "Comuna", "Agentes Evaluados", "Anexo SUSESO", "Gerente",
		},
	}
	maritime := schema.Has(sheets.ColMaritimePort)
	if maritime {
		d.Columns = append(d.Columns, "Marítimo Portuario")
	}
	d.Columns = append(d.Columns, "Cantidad Agentes")
	d.Numeric = make([]bool, len(d.Columns))
	d.Numeric[len(d.Columns)-1] = true

	groups := make(map[string]*workCenterGroup)
	var ids []string
	for _, r := range records {
		if r.WorkCenterID == events.NoID {
			continue
		}
		g, ok := groups[r.WorkCenterID]
		if !ok {
			g = &workCenterGroup{first: r, agents: make(map[string]struct{})}
			groups[r.WorkCenterID] = g
			ids = append(ids, r.WorkCenterID)
		}
		if r.Agent != events.NoAgent {
			g.agents[r.Agent] = struct{}{}
		}
	}
	sort.Strings(ids)

	d.Rows = make([][]string, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		agents := make([]string, 0, len(g.agents))
		for a := range g.agents {
			agents = append(agents, a)
		}
		sort.Strings(agents)
		joined := strings.Join(agents, ", ")

		f := g.first
		row := []string{
			id, f.Date.Format(DateLayout), string(f.Kind), f.EmployerName, f.Branch,
			f.Protocol, f.Region, f.Commune, joined, f.Annex, f.Management,
		}
		if maritime {
			row = append(row, f.MaritimePort)
		}
		row = append(row, strconv.Itoa(agentCount(joined)))
		d.Rows = append(d.Rows, row)
	}
	return d
}

// agentCount counts the entries of a joined agent list.
func agentCount(joined string) int {
	if joined == "" {
		return 0
	}
	return len(strings.Split(joined, ", "))
}

func flatDetail(records []events.Record, schema events.Schema) Detail {
	d := Detail{
		Sheet:      "Detalle_Evaluaciones",
		FilePrefix: "detalle_evaluaciones_",
		Columns: []string{
			"Fecha", "Tipo", "Rut Empleador o Rut trabajador(a)", "Nombre empleador",
			"Identificador único (ID) centro de trabajo (CT)", "Sucursal", "Agente",
			"Protocolo", "Región", "Comuna", "Nivel de Riesgo", "Anexo SUSESO", "Gerente",
		},
	}
	maritime := schema.Has(sheets.ColMaritimePort)
	reason := schema.Has(sheets.ColReason)
	codelco := schema.Has(sheets.ColCodelco)
	if maritime {
		d.Columns = append(d.Columns, "Marítimo Portuario")
	}
	if reason {
		d.Columns = append(d.Columns, "Motivo de programación")
	}
	if codelco {
		d.Columns = append(d.Columns, "Faena Codelco")
	}
	d.Numeric = make([]bool, len(d.Columns))

	sorted := make([]events.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	d.Rows = make([][]string, 0, len(sorted))
	for _, r := range sorted {
		row := []string{
			r.Date.Format(DateLayout), string(r.Kind), r.EmployerRut, r.EmployerName,
			r.WorkCenterID, r.Branch, r.Agent, r.Protocol, r.Region, r.Commune,
			r.RiskLevel, r.Annex, r.Management,
		}
		if maritime {
			row = append(row, r.MaritimePort)
		}
		if reason {
			row = append(row, r.Reason)
		}
		if codelco {
			row = append(row, r.Codelco)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}
