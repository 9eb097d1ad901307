// Package precedent implements the precedent comparability engine: seeds
// (immutable historical decisions), driver-aware similarity scoring, and
// the supporting/contrary/neutral match classification.
package precedent

import "github.com/adjudilane/verdict/pkg/canonical"

// Disposition is the outcome of a historical decision. ALLOW and BLOCK
// are the terminal states; EDD is the procedural "still under review"
// state and can never support or contradict a terminal outcome.
type Disposition string

const (
	DispositionAllow   Disposition = "ALLOW"
	DispositionBlock   Disposition = "BLOCK"
	DispositionEDD     Disposition = "EDD"
	DispositionUnknown Disposition = "UNKNOWN"
)

// Severity ranks dispositions for escalation-direction comparison.
func (d Disposition) Severity() int {
	switch d {
	case DispositionAllow:
		return 0
	case DispositionEDD:
		return 1
	case DispositionBlock:
		return 2
	}
	return -1
}

// Terminal reports whether the disposition is a decided end state.
func (d Disposition) Terminal() bool {
	return d == DispositionAllow || d == DispositionBlock
}

// Basis distinguishes outcomes compelled by rule from outcomes reached by
// judgment. Cross-basis precedents never support or contradict each other.
type Basis string

const (
	BasisMandatory     Basis = "MANDATORY"
	BasisDiscretionary Basis = "DISCRETIONARY"
	BasisUnknown       Basis = ""
)

// Reporting is the regulatory filing conclusion attached to a decision.
type Reporting string

const (
	ReportingNone Reporting = "NONE"
	ReportingSTR  Reporting = "STR"
)

// Seed is an immutable historical decision record: anchor facts, the
// disposition reached, the fields that causally drove it, and the policy
// regime that was in effect. Consumed, never mutated, by the scorer.
type Seed struct {
	ID          string                     `json:"id"`
	Typology    string                     `json:"typology"`
	Segment     string                     `json:"segment,omitempty"`
	Facts       map[string]canonical.Value `json:"facts"`
	Disposition Disposition                `json:"disposition"`
	Basis       Basis                      `json:"basis"`
	Reporting   Reporting                  `json:"reporting"`
	Drivers     []string                   `json:"drivers"`
	Regime      string                     `json:"regime,omitempty"`
}

// IsDriver reports whether the given field causally determined this
// seed's outcome.
func (s *Seed) IsDriver(fieldID string) bool {
	for _, d := range s.Drivers {
		if d == fieldID {
			return true
		}
	}
	return false
}
