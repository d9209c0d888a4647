package report

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ist-ho/progdash/pkg/events"
	"github.com/ist-ho/progdash/pkg/filter"
)

// Counting selects how evaluations are counted for a protocol family.
type Counting string

const (
	// CountRows counts every evaluation event.
	CountRows Counting = "rows"
	// CountWorkCenters counts distinct work centers, for protocols where one
	// site yields one report covering many agents.
	CountWorkCenters Counting = "distinct_work_center"
)

// Rule classifies protocols whose name contains Contains (case-insensitive).
type Rule struct {
	Name     string   `yaml:"name"`
	Contains string   `yaml:"contains"`
	Counting Counting `yaml:"counting"`
	// Label is the display name of the family, used in chart titles.
	Label string `yaml:"label"`
}

// Classifier is an ordered rule table; the first matching rule wins.
type Classifier struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultClassifier counts pesticide protocols by work center.
func DefaultClassifier() Classifier {
	return Classifier{Rules: []Rule{{
		Name:     "plaguicidas",
		Contains: "PLAGUICIDAS",
		Counting: CountWorkCenters,
		Label:    "Plaguicidas",
	}}}
}

// LoadClassifier reads a rule table from a YAML file.
func LoadClassifier(path string) (Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Classifier{}, fmt.Errorf("read rules: %w", err)
	}
	var c Classifier
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Classifier{}, fmt.Errorf("parse rules: %w", err)
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Contains) == "" {
			return Classifier{}, fmt.Errorf("rule %d (%s): empty match", i, r.Name)
		}
		switch r.Counting {
		case "":
			c.Rules[i].Counting = CountRows
		case CountRows, CountWorkCenters:
		default:
			return Classifier{}, fmt.Errorf("rule %d (%s): unknown counting %q", i, r.Name, r.Counting)
		}
		if r.Label == "" {
			c.Rules[i].Label = r.Name
		}
	}
	return c, nil
}

// Match returns the rule for a protocol name. Wildcards and the missing
// protocol sentinel never match.
func (c Classifier) Match(protocol string) (Rule, bool) {
	if filter.IsWildcard(protocol) || protocol == events.NoProtocol {
		return Rule{}, false
	}
	upper := strings.ToUpper(protocol)
	for _, r := range c.Rules {
		if strings.Contains(upper, strings.ToUpper(r.Contains)) {
			return r, true
		}
	}
	return Rule{}, false
}

// Mode decides the counting mode from the selected protocol filter, not from
// the protocols of the filtered rows: with no protocol selected every record
// counts as one evaluation.
func (c Classifier) Mode(sel filter.Selection) (Counting, Rule) {
	p, ok := sel.ProtocolSelected()
	if !ok {
		return CountRows, Rule{}
	}
	r, ok := c.Match(p)
	if !ok || r.Counting == "" {
		return CountRows, Rule{}
	}
	return r.Counting, r
}
