package events

import (
	"github.com/ist-ho/progdash/pkg/sheets"
)

// Required columns must be present in every source table.
var Required = []string{
	sheets.ColQualitativeDate,
	sheets.ColQuantitativeDate,
	sheets.ColProtocol,
	sheets.ColRegion,
	sheets.ColAgent,
	sheets.ColRiskLevel,
	sheets.ColCommune,
	sheets.ColBranch,
	sheets.ColEmployerRut,
	sheets.ColEmployerName,
	sheets.ColAnnex,
	sheets.ColWorkCenterID,
	sheets.ColManagement,
}

// Optional columns only exist in some variants of the workbook.
var Optional = []string{
	sheets.ColMaritimePort,
	sheets.ColReason,
	sheets.ColCodelco,
}

// Schema records which optional columns a loaded table carries. It is
// computed once per load; every consumer asks it instead of the raw table.
type Schema struct {
	present map[string]bool
}

// NewSchema validates t against the required columns and records which
// optional ones are present.
func NewSchema(t *sheets.Table) (Schema, error) {
	var missing []string
	for _, c := range Required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Schema{}, &sheets.DataShapeError{Missing: missing}
	}

	var present []string
	for _, c := range Optional {
		if t.Has(c) {
			present = append(present, c)
		}
	}
	return SchemaWith(present...), nil
}

// SchemaWith builds a schema carrying the given optional columns.
func SchemaWith(optional ...string) Schema {
	s := Schema{present: make(map[string]bool, len(Required)+len(optional))}
	for _, c := range Required {
		s.present[c] = true
	}
	for _, c := range optional {
		s.present[c] = true
	}
	return s
}

// Has reports whether col is part of this schema.
func (s Schema) Has(col string) bool {
	return s.present[col]
}

// Check returns sheets.ErrOptionalColumnAbsent when col is an optional
// column this schema lacks.
func (s Schema) Check(col string) error {
	if s.Has(col) {
		return nil
	}
	return sheets.ErrOptionalColumnAbsent
}

// Absent lists the optional columns this schema lacks.
func (s Schema) Absent() []string {
	var out []string
	for _, c := range Optional {
		if !s.present[c] {
			out = append(out, c)
		}
	}
	return out
}
