package pipeline

import (
	"github.com/ist-ho/progdash/pkg/filter"
	"github.com/ist-ho/progdash/pkg/report"
)

const (
	topProtocols = 10
	topAgents    = 10
)

// View is everything the dashboard shows for one filter selection.
type View struct {
	Selection    filter.Selection    `json:"-"`
	Options      filter.Options      `json:"options"`
	Mode         report.Counting     `json:"mode"`
	Rule         report.Rule         `json:"-"`
	Matched      int                 `json:"matched"`
	Summary      report.Summary      `json:"summary"`
	Monthly      report.MonthlyChart `json:"monthly"`
	TopProtocols []report.LabelCount `json:"top_protocols"`
	Regions      report.Breakdown    `json:"regions"`
	Agents       report.Breakdown    `json:"agents"`
	Detail       report.Detail       `json:"detail"`
}

// BuildView filters the snapshot and computes every aggregate over the result.
func BuildView(s *Snapshot, sel filter.Selection, c report.Classifier) View {
	filtered := filter.Apply(s.Events, s.Schema, sel)
	mode, rule := c.Mode(sel)
	return View{
		Selection:    sel,
		Options:      filter.BuildOptions(s.Events, s.Schema),
		Mode:         mode,
		Rule:         rule,
		Matched:      len(filtered),
		Summary:      report.Summarize(filtered, sel, c),
		Monthly:      report.Monthly(filtered, mode, rule),
		TopProtocols: report.TopProtocols(filtered, topProtocols),
		Regions:      report.RegionBreakdown(filtered, mode),
		Agents:       report.AgentBreakdown(filtered, mode, topAgents),
		Detail:       report.BuildDetail(filtered, s.Schema, mode),
	}
}
