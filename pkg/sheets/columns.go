package sheets

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical column names, as they appear in the maintained workbook.
const (
	ColWorkCenterID     = "Identificador único (ID) centro de trabajo (CT)"
	ColQualitativeDate  = "Fecha de Evaluación Cualitativa 2026"
	ColQuantitativeDate = "Fecha de Evaluación Cuantitativa 2026"
	ColLastQualitative  = "Fecha de última Evaluación Cualitativa"
	ColLastQuantitative = "Fecha de última Evaluación Cuantitativa"
	ColLastHealth       = "Fecha de última Evaluación Vigilancia de Salud"
	ColReason           = "Motivo de programación"
	ColInclusionOrigin  = "Origen de Inclusión"
	ColWorkers          = "N° de Trabajadores(as) CT"
	ColHealthDueMen     = "N° trabajadores que deben ingresar a Vigilancia de Salud Hombres"
	ColHealthDueWomen   = "N° trabajadores que deben ingresar a Vigilancia de Salud Mujeres"
	ColHealthMen        = "N° trabajadores en Vigilancia de Salud Hombres"
	ColHealthWomen      = "N° trabajadores en Vigilancia de Salud Mujeres"
	ColProtocol         = "Protocolo"
	ColRegion           = "Region Sucursal"
	ColAgent            = "Agente"
	ColRiskLevel        = "Nivel de riesgo"
	ColCommune          = "Comuna CT"
	ColBranch           = "NOMBRE SUCURSAL"
	ColEmployerRut      = "Rut Empleador o Rut trabajador(a)"
	ColEmployerName     = "Nombre empleador"
	ColAnnex            = "AnexoSUSESO"
	ColManagement       = "Gerencia - Cuentas Nacionales"
	ColMaritimePort     = "Faena Marítimo - Portuaria"
	ColCodelco          = "Faena Codelco"
)

// exportRenames maps the accentless headers produced by the Sheets CSV export
// back to their canonical names.
var exportRenames = map[string]string{
	"Identificador unico (ID) centro de trabajo (CT)":                 ColWorkCenterID,
	"Fecha de Evaluacion Cualitativa 2026":                            ColQualitativeDate,
	"Fecha de Evaluacion Cuantitativa 2026":                           ColQuantitativeDate,
	"Fecha de ultima Evaluacion Cualitativa":                          ColLastQualitative,
	"Fecha de ultima Evaluacion Cuantitativa":                         ColLastQuantitative,
	"Fecha de ultima Evaluacion Vigilancia de Salud":                  ColLastHealth,
	"Motivo de programacion":                                          ColReason,
	"Origen de Inclusion":                                             ColInclusionOrigin,
	"N de Trabajadores(as) CT":                                        ColWorkers,
	"N trabajadores que deben ingresar a Vigilancia de Salud Hombres": ColHealthDueMen,
	"N trabajadores que deben ingresar a Vigilancia de Salud Mujeres": ColHealthDueWomen,
	"N trabajadores en Vigilancia de Salud Hombres":                   ColHealthMen,
	"N trabajadores en Vigilancia de Salud Mujeres":                   ColHealthWomen,
}

// knownColumns is every canonical name the loader can fold a header onto.
var knownColumns = []string{
	ColWorkCenterID, ColQualitativeDate, ColQuantitativeDate, ColLastQualitative,
	ColLastQuantitative, ColLastHealth, ColReason, ColInclusionOrigin, ColWorkers,
	ColHealthDueMen, ColHealthDueWomen, ColHealthMen, ColHealthWomen, ColProtocol,
	ColRegion, ColAgent, ColRiskLevel, ColCommune, ColBranch, ColEmployerRut,
	ColEmployerName, ColAnnex, ColManagement, ColMaritimePort, ColCodelco,
}

var foldedColumns = func() map[string]string {
	m := make(map[string]string, len(knownColumns))
	for _, c := range knownColumns {
		m[foldHeader(c)] = c
	}
	return m
}()

// foldHeader strips accents, degree signs, case and repeated whitespace so that
// "N° de Trabajadores(as) CT" and "n de trabajadores(as) ct" compare equal.
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("°", "", "º", "").Replace(folded)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// NormalizeColumns returns the header with every known variant renamed to its
// canonical form. Unknown headers are kept trimmed but otherwise untouched.
func NormalizeColumns(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := exportRenames[h]; ok {
			out[i] = canonical
			continue
		}
		if canonical, ok := foldedColumns[foldHeader(h)]; ok {
			out[i] = canonical
			continue
		}
		out[i] = h
	}
	return out
}
