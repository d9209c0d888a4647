package report

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/sheets"
)

const pesticides = "PROTOCOLO DE VIGILANCIA DE TRABAJADORES EXPUESTOS A PLAGUICIDAS"

func ev(id string, kind events.Kind, date time.Time, protocol, agent string) events.Record {
	return events.Record{
		Date:         date,
		Kind:         kind,
		Month:        int(date.Month()),
		MonthName:    events.MonthName(int(date.Month())),
		Day:          date.Day(),
		WorkCenterID: id,
		Protocol:     protocol,
		Agent:        agent,
		Region:       "Maule",
		Commune:      "Talca",
		Branch:       "Sucursal Talca",
		EmployerName: "Agrícola SpA",
		EmployerRut:  "76.000.000-0",
		RiskLevel:    "Alto",
		Annex:        "Anexo 1",
		Management:   "Sur",
	}
}

func day(m, d int) time.Time {
	return time.Date(2026, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// oneSiteFiveAgents is a single work center scheduled for five pesticide
// agents on the same day.
func oneSiteFiveAgents() []events.Record {
	var out []events.Record
	for _, a := range []string{"Clorpirifos", "Glifosato", "Mancozeb", "Paraquat", "Abamectina"} {
		out = append(out, ev("CT-9", events.Qualitative, day(3, 10), pesticides, a))
	}
	return out
}

func TestSummarize_PesticideCountsWorkCenters(t *testing.T) {
	records := oneSiteFiveAgents()
	c := DefaultClassifier()

	got := Summarize(records, filter.Selection{Protocol: pesticides}, c)
	if got.Total != 1 || got.Mode != CountWorkCenters {
		t.Fatalf("expected one work center, got %+v", got)
	}
	if got.Label != "Total Centros de Trabajo" {
		t.Fatalf("unexpected label %q", got.Label)
	}
	if got.Qualitative != 1 || got.Quantitative != 0 {
		t.Fatalf("unexpected kind split %+v", got)
	}

	all := Summarize(records, filter.Selection{}, c)
	if all.Total != 5 || all.Mode != CountRows || all.Label != "Total Evaluaciones" {
		t.Fatalf("expected five evaluations without a protocol filter, got %+v", all)
	}
	if all.BusiestMonth != "Marzo" || all.BusiestMonthCount != 5 {
		t.Fatalf("unexpected busiest month %q/%d", all.BusiestMonth, all.BusiestMonthCount)
	}
}

func TestCount_IgnoresMissingID(t *testing.T) {
	records := []events.Record{
		ev("CT-1", events.Qualitative, day(1, 1), pesticides, "A"),
		ev(events.NoID, events.Qualitative, day(1, 2), pesticides, "B"),
		ev("CT-1", events.Quantitative, day(2, 1), pesticides, "C"),
	}
	if n := Count(records, CountWorkCenters); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
	if n := Count(records, CountRows); n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil, filter.Selection{}, DefaultClassifier())
	if got.Total != 0 || got.BusiestMonth != "" {
		t.Fatalf("unexpected summary for no records: %+v", got)
	}
}

func TestMonthly(t *testing.T) {
	records := []events.Record{
		ev("CT-1", events.Quantitative, day(4, 2), "RUIDO", "Ruido"),
		ev("CT-1", events.Qualitative, day(3, 1), "RUIDO", "Ruido"),
		ev("CT-2", events.Qualitative, day(3, 5), "RUIDO", "Ruido"),
		ev("CT-2", events.Qualitative, day(3, 6), "RUIDO", "Ruido"),
	}
	got := Monthly(records, CountRows, Rule{})
	want := []MonthlyPoint{
		{Month: 3, MonthName: "Marzo", Kind: events.Qualitative, Count: 3},
		{Month: 4, MonthName: "Abril", Kind: events.Quantitative, Count: 1},
	}
	if diff := cmp.Diff(want, got.Points); diff != "" {
		t.Fatalf("Monthly points (-want +got):\n%s", diff)
	}
	for _, p := range got.Points {
		if p.Count == 0 {
			t.Fatalf("zero group emitted: %+v", p)
		}
	}
	if got.Title != "Carga Mensual de Evaluaciones" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	byCT := Monthly(records, CountWorkCenters, DefaultClassifier().Rules[0])
	if byCT.Points[0].Count != 2 {
		t.Fatalf("expected 2 distinct work centers in March, got %d", byCT.Points[0].Count)
	}
	if byCT.YLabel != "Cantidad de Centros de Trabajo" || byCT.Title != "Carga Mensual de Centros de Trabajo (Plaguicidas)" {
		t.Fatalf("unexpected labels %q / %q", byCT.Title, byCT.YLabel)
	}
}

func TestMonthly_Empty(t *testing.T) {
	if got := Monthly(nil, CountRows, Rule{}); len(got.Points) != 0 {
		t.Fatalf("expected no points, got %v", got.Points)
	}
}

func TestTopProtocols(t *testing.T) {
	var records []events.Record
	add := func(protocol string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, ev("CT-1", events.Qualitative, day(1, 1), protocol, "A"))
		}
	}
	add("RUIDO", 4)
	add("SILICE", 2)
	add("PLAGUICIDAS", 2)
	add(events.NoProtocol, 10)
	for i := 0; i < 12; i++ {
		add("P"+string(rune('A'+i)), 1)
	}

	got := TopProtocols(records, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 protocols, got %d", len(got))
	}
	want := []LabelCount{{"RUIDO", 4}, {"PLAGUICIDAS", 2}, {"SILICE", 2}, {"PA", 1}}
	if diff := cmp.Diff(want, got[:4]); diff != "" {
		t.Fatalf("TopProtocols head (-want +got):\n%s", diff)
	}
	for _, lc := range got {
		if lc.Label == events.NoProtocol {
			t.Fatal("missing-protocol sentinel must be excluded")
		}
	}
}

func TestBreakdowns(t *testing.T) {
	records := oneSiteFiveAgents()
	records = append(records, ev("CT-3", events.Quantitative, day(5, 1), pesticides, events.NoAgent))
	records[len(records)-1].Region = "Ñuble"

	regions := RegionBreakdown(records, CountWorkCenters)
	if diff := cmp.Diff([]LabelCount{{"Maule", 1}, {"Ñuble", 1}}, regions.Rows); diff != "" {
		t.Fatalf("RegionBreakdown (-want +got):\n%s", diff)
	}

	agents := AgentBreakdown(records, CountWorkCenters, 10)
	if diff := cmp.Diff([]LabelCount{{"CT-9", 5}, {"CT-3", 1}}, agents.Rows); diff != "" {
		t.Fatalf("AgentBreakdown grouped (-want +got):\n%s", diff)
	}

	flat := AgentBreakdown(records, CountRows, 2)
	if len(flat.Rows) != 2 || flat.Rows[0].Label != "Abamectina" {
		t.Fatalf("unexpected flat agent breakdown %v", flat.Rows)
	}
}

func TestBuildDetail_Grouped(t *testing.T) {
	records := oneSiteFiveAgents()
	records = append(records,
		ev("CT-1", events.Quantitative, day(6, 1), pesticides, "Glifosato"),
		ev("CT-1", events.Qualitative, day(2, 1), pesticides, "Glifosato"),
		ev(events.NoID, events.Qualitative, day(2, 1), pesticides, "Paraquat"),
	)

	d := BuildDetail(records, events.SchemaWith(), CountWorkCenters)
	if !d.Grouped || d.Sheet != "Detalle_Plaguicidas" {
		t.Fatalf("unexpected detail kind %+v", d)
	}
	if len(d.Rows) != 2 {
		t.Fatalf("expected one row per work center, got %d", len(d.Rows))
	}
	last := len(d.Columns) - 1
	if d.Columns[last] != "Cantidad Agentes" || !d.Numeric[last] {
		t.Fatalf("unexpected last column %q", d.Columns[last])
	}

	ct1 := d.Rows[0]
	if ct1[0] != "CT-1" || ct1[1] != "01-06-2026" || ct1[8] != "Glifosato" || ct1[last] != "1" {
		t.Fatalf("unexpected CT-1 row %q", ct1)
	}
	ct9 := d.Rows[1]
	if ct9[8] != "Abamectina, Clorpirifos, Glifosato, Mancozeb, Paraquat" || ct9[last] != "5" {
		t.Fatalf("unexpected CT-9 row %q", ct9)
	}
	if got := d.FileName(day(3, 9)); got != "detalle_plaguicidas_ct_20260309.xlsx" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestBuildDetail_Flat(t *testing.T) {
	records := []events.Record{
		ev("CT-2", events.Quantitative, day(5, 1), "RUIDO", "Ruido"),
		ev("CT-1", events.Qualitative, day(1, 20), "RUIDO", "Ruido"),
		ev("CT-3", events.Qualitative, day(5, 1), "RUIDO", "Ruido"),
	}
	records[0].Codelco = "Andina"

	d := BuildDetail(records, events.SchemaWith(), CountRows)
	if d.Grouped || len(d.Columns) != 13 {
		t.Fatalf("unexpected flat detail columns %q", d.Columns)
	}
	var order []string
	for _, r := range d.Rows {
		order = append(order, r[4])
	}
	if !reflect.DeepEqual(order, []string{"CT-1", "CT-2", "CT-3"}) {
		t.Fatalf("expected stable date order, got %v", order)
	}
	if d.Rows[0][0] != "20-01-2026" {
		t.Fatalf("unexpected date format %q", d.Rows[0][0])
	}

	withSite := BuildDetail(records, events.SchemaWith("Faena Codelco"), CountRows)
	if withSite.Columns[len(withSite.Columns)-1] != "Faena Codelco" {
		t.Fatalf("expected Faena Codelco column, got %q", withSite.Columns)
	}
	if withSite.Rows[1][len(withSite.Columns)-1] != "Andina" {
		t.Fatalf("unexpected Codelco cell %q", withSite.Rows[1])
	}
	if len(records) != 3 || records[0].WorkCenterID != "CT-2" {
		t.Fatal("BuildDetail reordered its input")
	}
}

func roundTrip(t *testing.T, d Detail) Detail {
	t.Helper()
	path := filepath.Join(t.TempDir(), d.FileName(day(3, 9)))

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteXLSX(f, d); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f.Close()

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	back, err := ReadXLSX(r)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if back.Sheet != d.Sheet {
		t.Fatalf("sheet = %q, want %q", back.Sheet, d.Sheet)
	}
	if diff := cmp.Diff(d.Columns, back.Columns); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(d.Rows, back.Rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	return back
}

func TestXLSXRoundTrip_Grouped(t *testing.T) {
	d := BuildDetail(oneSiteFiveAgents(), events.SchemaWith(), CountWorkCenters)
	if !d.Grouped {
		t.Fatal("expected grouped detail")
	}
	roundTrip(t, d)
}

func TestXLSXRoundTrip_Flat(t *testing.T) {
	records := []events.Record{
		ev("CT-1", events.Qualitative, day(1, 20), "RUIDO", "Ruido"),
		ev("CT-2", events.Quantitative, day(5, 1), "SILICE", "Sílice"),
		ev("CT-3", events.Qualitative, day(6, 2), "RUIDO", "Ruido"),
	}
	records[1].EmployerRut = ""
	records[0].Codelco = "Andina"
	records[0].Reason = "Seguimiento"
	records[1].Codelco = events.NoSite
	records[1].Reason = events.NoReason
	records[2].MaritimePort = "Puerto San Antonio"
	records[2].Reason = "Ingreso"

	schema := events.SchemaWith(sheets.ColCodelco, sheets.ColReason, sheets.ColMaritimePort)
	d := BuildDetail(records, schema, CountRows)
	if d.Grouped || len(d.Columns) != 16 {
		t.Fatalf("unexpected flat columns %q", d.Columns)
	}
	if d.Rows[1][2] != "" {
		t.Fatalf("expected an empty RUT cell, got %q", d.Rows[1][2])
	}

	back := roundTrip(t, d)
	if back.Rows[1][2] != "" || back.Rows[1][3] != "Agrícola SpA" {
		t.Fatalf("empty RUT cell shifted the row: %q", back.Rows[1])
	}
}

func TestClassifier(t *testing.T) {
	c := DefaultClassifier()
	if _, ok := c.Match(pesticides); !ok {
		t.Fatal("expected pesticide protocol to match")
	}
	if _, ok := c.Match("protocolo plaguicidas"); !ok {
		t.Fatal("match should ignore case")
	}
	for _, p := range []string{filter.All, "", events.NoProtocol, "RUIDO"} {
		if _, ok := c.Match(p); ok {
			t.Fatalf("%q should not match", p)
		}
	}
	if mode, _ := c.Mode(filter.Selection{Protocol: "RUIDO"}); mode != CountRows {
		t.Fatalf("unexpected mode %q", mode)
	}
}

func TestLoadClassifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `rules:
  - name: plaguicidas
    contains: PLAGUICIDAS
    counting: distinct_work_center
    label: Plaguicidas
  - name: silice
    contains: SILICE
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	if len(c.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(c.Rules))
	}
	if c.Rules[1].Counting != CountRows || c.Rules[1].Label != "silice" {
		t.Fatalf("defaults not applied: %+v", c.Rules[1])
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("rules:\n  - name: x\n    contains: X\n    counting: weekly\n"), 0o644)
	if _, err := LoadClassifier(bad); err == nil {
		t.Fatal("expected unknown counting to be rejected")
	}
}
