// Package engine adjudicates a case against a loaded policy pack and
// produces a fully provenance-anchored decision: the decision id binds
// the engine version, the pack hash, and the input hash, so the same
// case under the same pack always yields the same decision id.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/policypack"
)

// Version is the engine release checked against pack engine constraints.
const Version = "1.4.0"

// Verdict is the adjudication outcome.
type Verdict string

const (
	VerdictPay      Verdict = "pay"
	VerdictDeny     Verdict = "deny"
	VerdictEscalate Verdict = "escalate"
)

// TriggeredExclusion reports one exclusion whose condition held, with
// the policy wording cited in the decision.
type TriggeredExclusion struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Wording   string   `json:"wording,omitempty"`
	AppliesTo []string `json:"applies_to,omitempty"`
}

// Deadline is one handling obligation extracted from the pack.
type Deadline struct {
	RuleID       string `json:"rule_id"`
	Days         int    `json:"days"`
	BusinessDays bool   `json:"business_days,omitempty"`
}

// Decision is the full adjudication output.
type Decision struct {
	DecisionID          string               `json:"decision_id"`
	EngineVersion       string               `json:"engine_version"`
	PolicyHash          string               `json:"policy_hash"`
	InputHash           string               `json:"input_hash"`
	Verdict             Verdict              `json:"verdict"`
	TriggeredExclusions []TriggeredExclusion `json:"triggered_exclusions,omitempty"`
	RequiredEvidence    []string             `json:"required_evidence,omitempty"`
	Deadlines           []Deadline           `json:"deadlines,omitempty"`
	RequiredApprovals   []string             `json:"required_approvals,omitempty"`
}

// InputHash canonically hashes the case facts.
func InputHash(facts map[string]canonical.Value) (string, error) {
	return canonical.Hash(facts)
}

// DecisionID derives the decision's identity from the triple that fully
// determines its outcome.
func DecisionID(engineVersion, policyHash, inputHash string) string {
	sum := sha256.Sum256([]byte(engineVersion + ":" + policyHash + ":" + inputHash))
	return hex.EncodeToString(sum[:])
}

// Adjudicate evaluates the pack's exclusion, evidence, timeline, and
// authority rules against the case facts. Any triggered exclusion denies;
// a required approval with no exclusion escalates; otherwise the claim
// pays.
func Adjudicate(pack *policypack.Pack, facts map[string]canonical.Value) (*Decision, error) {
	policyHash, err := policypack.Hash(pack)
	if err != nil {
		return nil, err
	}
	inputHash, err := InputHash(facts)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		EngineVersion: Version,
		PolicyHash:    policyHash,
		InputHash:     inputHash,
		DecisionID:    DecisionID(Version, policyHash, inputHash),
	}

	for _, excl := range pack.Exclusions {
		if excl.Trigger != nil && excl.Trigger.Eval(facts) {
			d.TriggeredExclusions = append(d.TriggeredExclusions, TriggeredExclusion{
				ID:        excl.ID,
				Code:      excl.Code,
				Name:      excl.Name,
				Wording:   excl.Wording,
				AppliesTo: excl.AppliesTo,
			})
		}
	}

	docs := map[string]bool{}
	for _, rule := range pack.EvidenceRules {
		if rule.When == nil || rule.When.Eval(facts) {
			for _, doc := range rule.RequiredDocs {
				docs[doc] = true
			}
		}
	}
	for doc := range docs {
		d.RequiredEvidence = append(d.RequiredEvidence, doc)
	}
	sort.Strings(d.RequiredEvidence)

	for _, rule := range pack.TimelineRules {
		if rule.When == nil || rule.When.Eval(facts) {
			d.Deadlines = append(d.Deadlines, Deadline{
				RuleID:       rule.ID,
				Days:         rule.DeadlineDays,
				BusinessDays: rule.BusinessDays,
			})
		}
	}

	roles := map[string]bool{}
	for _, rule := range pack.AuthorityRules {
		if rule.When == nil || rule.When.Eval(facts) {
			roles[rule.RequiredRole] = true
		}
	}
	for role := range roles {
		d.RequiredApprovals = append(d.RequiredApprovals, role)
	}
	sort.Strings(d.RequiredApprovals)

	switch {
	case len(d.TriggeredExclusions) > 0:
		d.Verdict = VerdictDeny
	case len(d.RequiredApprovals) > 0:
		d.Verdict = VerdictEscalate
	default:
		d.Verdict = VerdictPay
	}
	return d, nil
}
