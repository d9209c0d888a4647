package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
)

func TestPrintSummary(t *testing.T) {
	view := pipeline.View{
		Matched: 3,
		Summary: report.Summary{
			Label:             "Total Centros de Trabajo",
			Total:             1,
			Qualitative:       1,
			BusiestMonth:      "Marzo",
			BusiestMonthCount: 3,
		},
		Monthly: report.MonthlyChart{
			Title:  "Centros de trabajo por mes",
			Points: []report.MonthlyPoint{{Month: 3, MonthName: "Marzo", Kind: events.Qualitative, Count: 1}},
		},
		TopProtocols: []report.LabelCount{{Label: "PLAGUICIDAS", Count: 3}},
	}

	var buf bytes.Buffer
	printSummary(&buf, view)
	out := buf.String()
	for _, want := range []string{"Total Centros de Trabajo", "Marzo (3)", "Centros de trabajo por mes", "1.", "PLAGUICIDAS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, pipeline.View{})
	if got := strings.TrimSpace(buf.String()); got != "No evaluations match the selected filters." {
		t.Fatalf("unexpected output %q", got)
	}
}
