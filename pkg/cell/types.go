// Package cell implements the atomic, content-addressed, append-only record
// of the decision ledger. A cell is sealed by its id: a SHA-256 over the
// canonical form of its header, fact, and logic anchor. Any mutation after
// sealing is detectable and never silently repaired.
package cell

import "fmt"

// FormatVersion is the cell wire-format version.
const FormatVersion = "1.0"

// NullHash is the reserved predecessor hash of the one allowed genesis cell.
const NullHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Type is the closed set of cell variants. Dispatch over cell types is an
// exhaustive switch, so adding a variant is a single compile-checked change.
type Type string

const (
	TypeGenesis       Type = "genesis"
	TypeFact          Type = "fact"
	TypeRule          Type = "rule"
	TypeDecision      Type = "decision"
	TypeEvidence      Type = "evidence"
	TypeOverride      Type = "override"
	TypeNamespaceDef  Type = "namespace_def"
	TypeAccessRule    Type = "access_rule"
	TypeBridgeRule    Type = "bridge_rule"
	TypePolicyHead    Type = "policy_head"
	TypeSignal        Type = "signal"
	TypeMitigation    Type = "mitigation"
	TypeScore         Type = "score"
	TypeVerdict       Type = "verdict"
	TypeJustification Type = "justification"
)

// Valid reports whether t is a known cell type.
func (t Type) Valid() bool {
	switch t {
	case TypeGenesis, TypeFact, TypeRule, TypeDecision, TypeEvidence,
		TypeOverride, TypeNamespaceDef, TypeAccessRule, TypeBridgeRule,
		TypePolicyHead, TypeSignal, TypeMitigation, TypeScore,
		TypeVerdict, TypeJustification:
		return true
	}
	return false
}

// SourceQuality ranks how a fact was obtained. Conflict resolution prefers
// higher quality, and confidence 1.0 is only permitted for verified facts.
type SourceQuality string

const (
	QualityInferred     SourceQuality = "inferred"
	QualitySelfReported SourceQuality = "self_reported"
	QualityVerified     SourceQuality = "verified"
)

// Rank returns the ordering of the quality level (higher wins).
func (q SourceQuality) Rank() int {
	switch q {
	case QualityVerified:
		return 3
	case QualitySelfReported:
		return 2
	case QualityInferred:
		return 1
	}
	return 0
}

// Valid reports whether q is a known quality level.
func (q SourceQuality) Valid() bool { return q.Rank() > 0 }

func (q SourceQuality) String() string { return string(q) }

// ErrUnknownType is returned for cells carrying an unregistered type tag.
func errUnknownType(t Type) error {
	return fmt.Errorf("cell: unknown cell type %q", t)
}
