package domain

import (
	"fmt"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// GateCheck is the result of one gate evaluation, kept for the audit trail.
type GateCheck struct {
	Field          string `json:"field"`
	CaseClass      string `json:"case_class"`
	PrecedentClass string `json:"precedent_class"`
	Passed         bool   `json:"passed"`
	Reason         string `json:"reason,omitempty"`
}

// GateResult reports whether a (case, precedent) pair may be compared at
// all. ALL gates must pass; a single failure makes the pair categorically
// non-comparable rather than low-scoring.
type GateResult struct {
	Passed bool        `json:"passed"`
	Checks []GateCheck `json:"checks"`
}

// EvaluateGates classifies both sides' raw values into equivalence
// classes (case-folded lookup) and passes a gate only when both classify
// to the same non-empty class.
func EvaluateGates(r *Registry, caseFacts, precFacts map[string]canonical.Value) GateResult {
	result := GateResult{Passed: true, Checks: make([]GateCheck, 0, len(r.Gates))}

	for _, g := range r.Gates {
		check := GateCheck{Field: g.Field}
		caseVal, caseOK := caseFacts[g.Field]
		precVal, precOK := precFacts[g.Field]

		if !caseOK || !precOK {
			check.Reason = fmt.Sprintf("gate field %s absent from %s", g.Field, missingSide(caseOK, precOK))
			result.Passed = false
			result.Checks = append(result.Checks, check)
			continue
		}

		check.CaseClass = gateClassOf(g, caseVal)
		check.PrecedentClass = gateClassOf(g, precVal)

		switch {
		case check.CaseClass == "" || check.PrecedentClass == "":
			check.Reason = fmt.Sprintf("value outside every %s equivalence class", g.Field)
		case check.CaseClass != check.PrecedentClass:
			check.Reason = fmt.Sprintf("%s: case class %q vs precedent class %q", g.Field, check.CaseClass, check.PrecedentClass)
		default:
			check.Passed = true
		}
		if !check.Passed {
			result.Passed = false
		}
		result.Checks = append(result.Checks, check)
	}
	return result
}

func gateClassOf(g Gate, v canonical.Value) string {
	raw := fold(v.DisplayString())
	for class, members := range g.Classes {
		for _, m := range members {
			if fold(m) == raw {
				return class
			}
		}
	}
	return ""
}

func missingSide(caseOK, precOK bool) string {
	switch {
	case !caseOK && !precOK:
		return "both case and precedent"
	case !caseOK:
		return "case"
	default:
		return "precedent"
	}
}
