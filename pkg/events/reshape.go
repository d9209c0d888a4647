package events

import (
	"time"

	"github.com/ist-ho/progdash/pkg/sheets"
)

// Reshape turns the wide table into one Record per populated evaluation date.
// All qualitative events come first, then all quantitative ones, each group in
// source order. Rows with neither date produce nothing.
func Reshape(t *sheets.Table, schema Schema) []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.HasQualitative() {
			out = append(out, newRecord(row, schema, Qualitative, row.Qualitative))
		}
	}
	for _, row := range t.Rows {
		if row.HasQuantitative() {
			out = append(out, newRecord(row, schema, Quantitative, row.Quantitative))
		}
	}
	return out
}

func newRecord(row sheets.Row, schema Schema, kind Kind, date time.Time) Record {
	rec := Record{
		Date:         date,
		Kind:         kind,
		Month:        int(date.Month()),
		Day:          date.Day(),
		Protocol:     orSentinel(row.Get(sheets.ColProtocol), NoProtocol),
		Region:       orSentinel(row.Get(sheets.ColRegion), NoRegion),
		Agent:        orSentinel(row.Get(sheets.ColAgent), NoAgent),
		RiskLevel:    orSentinel(row.Get(sheets.ColRiskLevel), NoRiskLevel),
		Commune:      orSentinel(row.Get(sheets.ColCommune), NoInfo),
		Branch:       orSentinel(row.Get(sheets.ColBranch), NoBranch),
		EmployerRut:  row.Get(sheets.ColEmployerRut),
		EmployerName: orSentinel(row.Get(sheets.ColEmployerName), NoEmployer),
		Annex:        orSentinel(row.Get(sheets.ColAnnex), NoInfo),
		WorkCenterID: orSentinel(row.Get(sheets.ColWorkCenterID), NoID),
		Management:   orSentinel(row.Get(sheets.ColManagement), NoManagement),
	}
	rec.MonthName = MonthName(rec.Month)

	if schema.Has(sheets.ColMaritimePort) {
		rec.MaritimePort = orSentinel(row.Get(sheets.ColMaritimePort), NoInfo)
	}
	if schema.Has(sheets.ColReason) {
		rec.Reason = orSentinel(row.Get(sheets.ColReason), NoReason)
	}
	if schema.Has(sheets.ColCodelco) {
		rec.Codelco = orSentinel(row.Get(sheets.ColCodelco), NoSite)
	}
	return rec
}

func orSentinel(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}
