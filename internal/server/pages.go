package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
)

const (
	pageTitle  = "Programación 2026"
	chartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4/dist/chart.umd.min.js"
)

var kindColors = map[events.Kind]string{
	events.Qualitative:  "#06b6d4",
	events.Quantitative: "#f97316",
}

// PageLayout wraps content in the shared document shell.
func PageLayout(title string, content ...g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("es"),
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Script(Src("https://cdn.tailwindcss.com")),
			),
			Body(Class("bg-slate-950 font-sans antialiased flex flex-col min-h-screen text-slate-300"),
				Nav(Class("bg-slate-900/80 p-4 shadow-lg shadow-black/20 border-b border-slate-700/50"),
					Div(Class("container mx-auto flex justify-between items-center"),
						A(Href("/"), Class("text-xl font-bold tracking-tight text-white hover:text-cyan-400"), g.Text(pageTitle)),
						Span(Class("text-sm text-slate-500"), g.Text("Evaluaciones de salud ocupacional")),
					),
				),
				Div(Class("flex-grow"), g.Group(content)),
			),
		),
	})
}

// statsCard renders a summary metric card.
func statsCard(label, value, valueColor string) g.Node {
	return Div(Class("metric-card bg-zinc-800/30 border border-zinc-700/50 rounded-xl p-4 text-center"),
		Div(Class("text-2xl font-extrabold tabular-nums "+valueColor), g.Text(value)),
		Div(Class("text-xs uppercase tracking-wider text-zinc-500 mt-1 font-medium"), g.Text(label)),
	)
}

func panel(title string, children ...g.Node) g.Node {
	return Div(Class("mt-8 p-6 bg-zinc-800/20 border border-zinc-700/50 rounded-xl"),
		H2(Class("text-lg font-semibold text-zinc-300 mb-4"), g.Text(title)),
		g.Group(children),
	)
}

// DashboardPage renders the full dashboard for one filtered view.
func DashboardPage(snap *pipeline.Snapshot, view pipeline.View) g.Node {
	content := []g.Node{
		H1(Class("text-2xl md:text-3xl font-bold text-white mb-6"), g.Text("Programación 2026")),
	}

	if view.Matched == 0 {
		content = append(content,
			Div(ID("no-data"), Class("bg-orange-900/20 border border-orange-800/50 text-orange-400 px-4 py-3 rounded-lg mb-6"),
				g.Text("No hay evaluaciones para los filtros seleccionados."),
			),
		)
	} else {
		content = append(content,
			summaryCards(view.Summary),
			monthlyPanel(view.Monthly),
			protocolsPanel(view.TopProtocols),
			Div(Class("grid md:grid-cols-2 gap-6"),
				breakdownTable("regions", view.Regions),
				breakdownTable("agents", view.Agents),
			),
			detailPanel(view),
			Script(Src(chartJSURL)),
			Script(g.Raw(chartScript(view))),
		)
	}

	return PageLayout(pageTitle,
		Main(Class("container mx-auto mt-10 mb-20 px-4 grid lg:grid-cols-[16rem_1fr] gap-8"),
			Aside(filterSidebar(view.Selection, view.Options)),
			Section(Class("bg-zinc-900/30 border border-zinc-800/50 rounded-2xl p-6 md:p-8"), g.Group(content)),
		),
		snapshotFooter(snap),
	)
}

func summaryCards(s report.Summary) g.Node {
	busiest := "-"
	if s.BusiestMonth != "" {
		busiest = fmt.Sprintf("%s (%d)", s.BusiestMonth, s.BusiestMonthCount)
	}
	return Div(ID("summary"), Class("grid grid-cols-2 md:grid-cols-4 gap-4 mb-6"),
		statsCard(s.Label, strconv.Itoa(s.Total), "text-cyan-400"),
		statsCard("Cualitativas", strconv.Itoa(s.Qualitative), "text-blue-400"),
		statsCard("Cuantitativas", strconv.Itoa(s.Quantitative), "text-orange-400"),
		statsCard("Mes con más evaluaciones", busiest, "text-amber-400"),
	)
}

func filterSidebar(sel filter.Selection, opts filter.Options) g.Node {
	return Form(ID("filters"), Method("get"), Action("/"), Class("space-y-4 bg-zinc-900/30 border border-zinc-800/50 rounded-2xl p-4"),
		H2(Class("text-lg font-semibold text-zinc-300"), g.Text("Filtros")),
		filterSelect("Anexo SUSESO", filter.ParamAnnex, sel.Annex, opts.Annex),
		filterSelect("Gerencia", filter.ParamManagement, sel.Management, opts.Management),
		filterSelect("Faena Marítimo - Portuaria", filter.ParamMaritimePort, sel.MaritimePort, opts.MaritimePort),
		filterSelect("Protocolo", filter.ParamProtocol, sel.Protocol, opts.Protocol),
		filterSelect("Región", filter.ParamRegion, sel.Region, opts.Region),
		filterSelect("Tipo de evaluación", filter.ParamKind, sel.Kind, opts.Kind),
		filterSelect("Mes", filter.ParamMonth, sel.Month, opts.Month),
		filterSelect("Faena Codelco", filter.ParamCodelco, sel.Codelco, opts.Codelco),
		Button(Type("submit"), Class("w-full bg-cyan-600 hover:bg-cyan-500 text-white rounded-md py-2 text-sm font-medium"), g.Text("Aplicar")),
		Button(Type("submit"), g.Attr("formaction", "/reload"), g.Attr("formmethod", "post"),
			Class("w-full bg-slate-700 hover:bg-slate-600 text-white rounded-md py-2 text-sm font-medium"), g.Text("Recargar datos")),
	)
}

// filterSelect renders nothing when the dimension has no options, which is
// how absent optional columns drop out of the sidebar.
func filterSelect(label, param, current string, options []string) g.Node {
	if len(options) == 0 {
		return nil
	}
	if current == "" {
		current = options[0]
	}
	var opts []g.Node
	for _, o := range options {
		opts = append(opts, Option(Value(o), g.If(o == current, Selected()), g.Text(o)))
	}
	return Div(
		Label(For(param), Class("block text-sm font-medium text-zinc-400 mb-1.5"), g.Text(label)),
		Select(ID(param), Name(param), Class("w-full bg-zinc-800 border border-zinc-700 rounded-md p-2 text-sm"), g.Group(opts)),
	)
}

func monthlyPanel(ch report.MonthlyChart) g.Node {
	return panel(ch.Title,
		Canvas(ID("monthlyChart"), g.Attr("height", "300")),
	)
}

func protocolsPanel(top []report.LabelCount) g.Node {
	if len(top) == 0 {
		return nil
	}
	height := 30*len(top) + 100
	return panel("Top 10 protocolos",
		Canvas(ID("protocolChart"), g.Attr("height", strconv.Itoa(height))),
	)
}

func breakdownTable(id string, b report.Breakdown) g.Node {
	var rows []g.Node
	for _, r := range b.Rows {
		rows = append(rows, Tr(Class("border-t border-zinc-800"),
			Td(Class("py-1 pr-4"), g.Text(r.Label)),
			Td(Class("py-1 text-right tabular-nums"), g.Text(strconv.Itoa(r.Count))),
		))
	}
	return panel(b.Title,
		Table(ID(id), Class("w-full text-sm"),
			THead(Tr(
				Th(Class("text-left text-zinc-400"), g.Text(b.Columns[0])),
				Th(Class("text-right text-zinc-400"), g.Text(b.Columns[1])),
			)),
			TBody(g.Group(rows)),
		),
	)
}

func detailPanel(view pipeline.View) g.Node {
	d := view.Detail
	head := make([]g.Node, 0, len(d.Columns))
	for _, c := range d.Columns {
		head = append(head, Th(Class("text-left text-zinc-400 px-2 py-1 whitespace-nowrap"), g.Text(c)))
	}
	body := make([]g.Node, 0, len(d.Rows))
	for _, row := range d.Rows {
		cells := make([]g.Node, 0, len(row))
		for _, v := range row {
			cells = append(cells, Td(Class("px-2 py-1 whitespace-nowrap"), g.Text(v)))
		}
		body = append(body, Tr(Class("border-t border-zinc-800"), g.Group(cells)))
	}

	exportHref := "/export.xlsx"
	if q := view.Selection.Query().Encode(); q != "" {
		exportHref += "?" + q
	}
	title := "Detalle de evaluaciones"
	if d.Grouped {
		title = "Detalle por centro de trabajo"
	}

	return panel(title,
		A(ID("export"), Href(exportHref), Class("inline-block mb-4 text-cyan-400 hover:text-cyan-300 text-sm"), g.Text("Descargar Excel")),
		Div(Class("overflow-x-auto max-h-[32rem]"),
			Table(ID("detail"), Class("w-full text-xs"),
				THead(Tr(g.Group(head))),
				TBody(g.Group(body)),
			),
		),
	)
}

func snapshotFooter(snap *pipeline.Snapshot) g.Node {
	return Footer(Class("bg-slate-900/50 text-slate-500 mt-auto border-t border-slate-800/50"),
		Div(Class("container mx-auto px-4 py-6 text-xs flex flex-col md:flex-row justify-between gap-2"),
			Span(g.Textf("Datos cargados %s", snap.FetchedAt.Format("02-01-2006 15:04:05"))),
			Span(g.Textf("Carga %s", snap.ID)),
			A(Href(snap.SourceURL), Target("_blank"), Rel("noopener noreferrer"), Class("hover:text-cyan-400"), g.Text("Planilla de origen")),
		),
	)
}

// ErrorPage renders a failed load with enough detail to diagnose it.
func ErrorPage(body errorBody) g.Node {
	details := []g.Node{
		Div(Class("bg-red-900/20 border border-red-800/50 text-red-400 px-4 py-3 rounded-lg mb-6"),
			Strong(g.Text("Error al cargar datos: ")),
			Span(ID("error-message"), g.Text(body.Error)),
		),
	}
	if body.SourceURL != "" {
		details = append(details, diagnostic("URL configurada", body.SourceURL))
	}
	if body.ExportURL != "" {
		details = append(details, diagnostic("URL de exportación CSV", body.ExportURL))
	}
	if len(body.Missing) > 0 {
		details = append(details, diagnostic("Columnas faltantes", strings.Join(body.Missing, ", ")))
	}
	details = append(details,
		P(Class("text-sm text-zinc-400 mt-6"),
			g.Text("Verifique que la planilla esté compartida como \"Cualquier persona con el enlace puede ver\"."),
		),
	)

	return PageLayout(pageTitle+" - Error",
		Main(Class("container mx-auto mt-10 mb-20 px-4"),
			Section(Class("bg-zinc-900/30 border border-zinc-800/50 rounded-2xl p-6 md:p-8"), g.Group(details)),
		),
	)
}

func diagnostic(label, value string) g.Node {
	return Div(Class("diagnostic mb-2 text-sm"),
		Span(Class("text-zinc-400"), g.Text(label+": ")),
		Code(Class("text-zinc-200 break-all"), g.Text(value)),
	)
}

type chartDataset struct {
	Label           string `json:"label"`
	Data            []*int `json:"data"`
	BackgroundColor string `json:"backgroundColor"`
	BorderRadius    int    `json:"borderRadius"`
}

// monthlyDatasets lays the chart points out as one dataset per kind over the
// months that have data. Month/kind pairs with no data are null so Chart.js
// leaves a gap instead of drawing a zero bar.
func monthlyDatasets(ch report.MonthlyChart) ([]string, []chartDataset) {
	var labels []string
	index := map[string]int{}
	for _, p := range ch.Points {
		if _, ok := index[p.MonthName]; !ok {
			index[p.MonthName] = len(labels)
			labels = append(labels, p.MonthName)
		}
	}
	var datasets []chartDataset
	for _, kind := range events.Kinds {
		ds := chartDataset{Label: string(kind), Data: make([]*int, len(labels)), BackgroundColor: kindColors[kind], BorderRadius: 4}
		used := false
		for _, p := range ch.Points {
			if p.Kind == kind {
				n := p.Count
				ds.Data[index[p.MonthName]] = &n
				used = true
			}
		}
		if used {
			datasets = append(datasets, ds)
		}
	}
	return labels, datasets
}

func chartScript(view pipeline.View) string {
	labels, datasets := monthlyDatasets(view.Monthly)

	var protoLabels []string
	var protoCounts []int
	for _, p := range view.TopProtocols {
		protoLabels = append(protoLabels, p.Label)
		protoCounts = append(protoCounts, p.Count)
	}

	return fmt.Sprintf(`
		const axis = { ticks: { color: '#a1a1aa' }, grid: { color: '#27272a' } };
		new Chart(document.getElementById('monthlyChart'), {
			type: 'bar',
			data: { labels: %s, datasets: %s },
			options: {
				responsive: true,
				scales: { x: axis, y: Object.assign({ title: { display: true, text: %s, color: '#a1a1aa' } }, axis) },
				plugins: { legend: { position: 'bottom', labels: { color: '#a1a1aa' } } }
			}
		});
		const protocolCanvas = document.getElementById('protocolChart');
		if (protocolCanvas) {
			new Chart(protocolCanvas, {
				type: 'bar',
				data: { labels: %s, datasets: [{ label: 'Evaluaciones', data: %s, backgroundColor: '#06b6d4', borderRadius: 4 }] },
				options: { indexAxis: 'y', responsive: true, scales: { x: axis, y: axis }, plugins: { legend: { display: false } } }
			});
		}
	`, mustJSON(labels), mustJSON(datasets), mustJSON(view.Monthly.YLabel), mustJSON(protoLabels), mustJSON(protoCounts))
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
