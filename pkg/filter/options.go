package filter

import (
	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/sheets"
)

// Options holds the choices offered for each dimension, wildcard first.
// Optional dimensions are nil when the schema lacks their column.
type Options struct {
	Annex        []string `json:"anexo"`
	Protocol     []string `json:"protocolo"`
	Region       []string `json:"region"`
	Management   []string `json:"gerencia"`
	Kind         []string `json:"tipo"`
	Month        []string `json:"mes"`
	Codelco      []string `json:"codelco,omitempty"`
	MaritimePort []string `json:"maritimo,omitempty"`
}

// BuildOptions collects the distinct values of each dimension, excluding the
// dimension's sentinel label.
func BuildOptions(records []events.Record, schema events.Schema) Options {
	collect := func(get func(events.Record) string, sentinel string) []string {
		vals := make([]string, len(records))
		for i, r := range records {
			vals[i] = get(r)
		}
		return append([]string{All}, utils.DedupSorted(vals, sentinel)...)
	}

	opts := Options{
		Annex:      collect(func(r events.Record) string { return r.Annex }, events.NoInfo),
		Protocol:   collect(func(r events.Record) string { return r.Protocol }, events.NoProtocol),
		Region:     collect(func(r events.Record) string { return r.Region }, events.NoRegion),
		Management: collect(func(r events.Record) string { return r.Management }, events.NoManagement),
		Kind:       []string{AllFeminine, string(events.Qualitative), string(events.Quantitative)},
		Month:      append([]string{All}, events.MonthNames...),
	}
	opts.Region[0] = AllFeminine

	if schema.Has(sheets.ColCodelco) {
		opts.Codelco = collect(func(r events.Record) string { return r.Codelco }, events.NoSite)
	}
	if schema.Has(sheets.ColMaritimePort) {
		opts.MaritimePort = collect(func(r events.Record) string { return r.MaritimePort }, events.NoInfo)
	}
	return opts
}
