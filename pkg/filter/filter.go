package filter

import (
	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/sheets"
)

type predicate func(events.Record) bool

// predicates returns the active equality checks of sel in declaration order.
// Optional dimensions are skipped when the schema lacks their column.
func predicates(schema events.Schema, sel Selection) []predicate {
	var ps []predicate
	if v := sel.Annex; !IsWildcard(v) {
		ps = append(ps, func(r events.Record) bool { return r.Annex == v })
	}
	if v := sel.Management; !IsWildcard(v) {
		ps = append(ps, func(r events.Record) bool { return r.Management == v })
	}
	if v := sel.MaritimePort; !IsWildcard(v) && schema.Has(sheets.ColMaritimePort) {
		ps = append(ps, func(r events.Record) bool { return r.MaritimePort == v })
	}
	if v := sel.Protocol; !IsWildcard(v) {
		ps = append(ps, func(r events.Record) bool { return r.Protocol == v })
	}
	if v := sel.Region; !IsWildcard(v) {
		ps = append(ps, func(r events.Record) bool { return r.Region == v })
	}
	if v := sel.Kind; !IsWildcard(v) {
		ps = append(ps, func(r events.Record) bool { return string(r.Kind) == v })
	}
	if v := sel.Month; !IsWildcard(v) {
		m := events.MonthNumber(v)
		ps = append(ps, func(r events.Record) bool { return r.Month == m })
	}
	if v := sel.Codelco; !IsWildcard(v) && schema.Has(sheets.ColCodelco) {
		ps = append(ps, func(r events.Record) bool { return r.Codelco == v })
	}
	return ps
}

// Apply returns a new slice with the records matching every active filter in
// sel. The input is never modified.
func Apply(records []events.Record, schema events.Schema, sel Selection) []events.Record {
	ps := predicates(schema, sel)
	out := make([]events.Record, 0, len(records))
next:
	for _, r := range records {
		for _, p := range ps {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// ByKind returns the records of one evaluation kind.
func ByKind(records []events.Record, kind events.Kind) []events.Record {
	return Apply(records, events.Schema{}, Selection{Kind: string(kind)})
}
