package events

import "time"

// Kind is the evaluation kind an event was derived from.
type Kind string

const (
	Qualitative  Kind = "Cualitativa"
	Quantitative Kind = "Cuantitativa"
)

// Kinds in display order.
var Kinds = []Kind{Qualitative, Quantitative}

// Sentinel labels used in place of missing categorical values.
const (
	NoInfo       = "Sin Información"
	NoID         = "Sin ID"
	NoProtocol   = "Sin Protocolo"
	NoRegion     = "Sin Región"
	NoAgent      = "Sin Agente"
	NoRiskLevel  = "Sin Nivel"
	NoBranch     = "Sin Sucursal"
	NoEmployer   = "Sin Empleador"
	NoManagement = "Sin Gerente"
	NoSite       = "Sin Faena"
	NoReason     = "Sin Motivo"
	NoMonth      = "Sin Mes"
)

// Record is one scheduled evaluation: a wide row paired with one of its dates.
type Record struct {
	Date      time.Time
	Kind      Kind
	Month     int
	MonthName string
	Day       int

	Protocol     string
	Region       string
	Agent        string
	RiskLevel    string
	Commune      string
	Branch       string
	EmployerRut  string
	EmployerName string
	Annex        string
	WorkCenterID string
	Management   string

	// Optional columns; empty when the schema does not carry them.
	MaritimePort string
	Reason       string
	Codelco      string
}
