// Package policypack defines the structured policy-pack documents the
// engine consumes: coverage sections, exclusions with condition trees,
// evidence, timeline, and authority rules, plus the order-invariant pack
// hash that anchors every decision's provenance.
package policypack

// Meta identifies a pack and its applicability.
type Meta struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Version          string `json:"version" yaml:"version"`
	Jurisdiction     string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	LineOfBusiness   string `json:"line_of_business" yaml:"line_of_business"`
	EngineConstraint string `json:"engine_constraint,omitempty" yaml:"engine_constraint,omitempty"`
}

// Coverage is one coverage section of a line of business.
type Coverage struct {
	ID          string `json:"id" yaml:"id"`
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Exclusion denies coverage when its trigger condition holds. Wording is
// the policy text cited in the decision report.
type Exclusion struct {
	ID        string     `json:"id" yaml:"id"`
	Code      string     `json:"code" yaml:"code"`
	Name      string     `json:"name" yaml:"name"`
	Trigger   *Condition `json:"trigger" yaml:"trigger"`
	Wording   string     `json:"wording,omitempty" yaml:"wording,omitempty"`
	AppliesTo []string   `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
}

// EvidenceRule names the document types required when its condition holds.
type EvidenceRule struct {
	ID           string     `json:"id" yaml:"id"`
	When         *Condition `json:"when,omitempty" yaml:"when,omitempty"`
	RequiredDocs []string   `json:"required_docs" yaml:"required_docs"`
}

// TimelineRule sets a handling deadline when its condition holds.
type TimelineRule struct {
	ID           string     `json:"id" yaml:"id"`
	DeadlineDays int        `json:"deadline_days" yaml:"deadline_days"`
	BusinessDays bool       `json:"business_days,omitempty" yaml:"business_days,omitempty"`
	When         *Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// AuthorityRule requires an approver role when its condition holds.
type AuthorityRule struct {
	ID           string     `json:"id" yaml:"id"`
	When         *Condition `json:"when,omitempty" yaml:"when,omitempty"`
	RequiredRole string     `json:"required_role" yaml:"required_role"`
}

// Pack is one versioned policy pack. Reference-integrity validation
// (exclusions pointing at real coverages, unique ids) happens at load
// time; the engine consumes packs as already-validated data.
type Pack struct {
	Meta           Meta            `json:"meta" yaml:"meta"`
	Coverages      []Coverage      `json:"coverages" yaml:"coverages"`
	Exclusions     []Exclusion     `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
	EvidenceRules  []EvidenceRule  `json:"evidence_rules,omitempty" yaml:"evidence_rules,omitempty"`
	TimelineRules  []TimelineRule  `json:"timeline_rules,omitempty" yaml:"timeline_rules,omitempty"`
	AuthorityRules []AuthorityRule `json:"authority_rules,omitempty" yaml:"authority_rules,omitempty"`
}
