package filter

import (
	"net/url"
)

// Wildcard labels, one per dimension as the sidebar shows them.
const (
	All         = "Todos"
	AllFeminine = "Todas"
)

// Selection is the set of values chosen in the filter sidebar. A field that
// is empty or holds its wildcard places no constraint.
type Selection struct {
	Annex        string
	Protocol     string
	Region       string
	Management   string
	Kind         string
	Month        string
	Codelco      string
	MaritimePort string
}

// Query parameter names used by the dashboard and the JSON API.
const (
	ParamAnnex        = "anexo"
	ParamProtocol     = "protocolo"
	ParamRegion       = "region"
	ParamManagement   = "gerencia"
	ParamKind         = "tipo"
	ParamMonth        = "mes"
	ParamCodelco      = "codelco"
	ParamMaritimePort = "maritimo"
)

// FromQuery reads a Selection from URL query values.
func FromQuery(q url.Values) Selection {
	return Selection{
		Annex:        q.Get(ParamAnnex),
		Protocol:     q.Get(ParamProtocol),
		Region:       q.Get(ParamRegion),
		Management:   q.Get(ParamManagement),
		Kind:         q.Get(ParamKind),
		Month:        q.Get(ParamMonth),
		Codelco:      q.Get(ParamCodelco),
		MaritimePort: q.Get(ParamMaritimePort),
	}
}

// Query encodes the non-wildcard fields of s.
func (s Selection) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if !IsWildcard(v) {
			q.Set(k, v)
		}
	}
	set(ParamAnnex, s.Annex)
	set(ParamProtocol, s.Protocol)
	set(ParamRegion, s.Region)
	set(ParamManagement, s.Management)
	set(ParamKind, s.Kind)
	set(ParamMonth, s.Month)
	set(ParamCodelco, s.Codelco)
	set(ParamMaritimePort, s.MaritimePort)
	return q
}

// IsWildcard reports whether v places no constraint on its dimension.
func IsWildcard(v string) bool {
	return v == "" || v == All || v == AllFeminine
}

// ProtocolSelected returns the chosen protocol and whether one is chosen.
func (s Selection) ProtocolSelected() (string, bool) {
	if IsWildcard(s.Protocol) {
		return "", false
	}
	return s.Protocol, true
}
