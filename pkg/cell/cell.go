package cell

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/namespace"
)

// Header binds a cell to one graph instance and one position in knowledge
// time. SystemTime is the "when we learned this" clock; PrevHash links the
// cell to its predecessor (NullHash for genesis only).
type Header struct {
	Version    string    `json:"version"`
	GraphID    string    `json:"graph_id"`
	Type       Type      `json:"cell_type"`
	SystemTime time.Time `json:"system_time"`
	PrevHash   string    `json:"prev_cell_hash"`
}

// Fact is the bitemporal assertion a cell carries. ValidFrom/ValidTo is the
// "what was true when" clock, independent of Header.SystemTime; a nil
// ValidTo means still valid.
type Fact struct {
	Namespace     string          `json:"namespace"`
	Subject       string          `json:"subject"`
	Predicate     string          `json:"predicate"`
	Object        canonical.Value `json:"object"`
	Confidence    float64         `json:"confidence"`
	SourceQuality SourceQuality   `json:"source_quality"`
	ValidFrom     time.Time       `json:"valid_from"`
	ValidTo       *time.Time      `json:"valid_to,omitempty"`
}

// Anchor ties a cell to the rule that produced it. RuleLogicHash is the
// whitespace-insensitive SHA-256 of the rule text.
type Anchor struct {
	RuleID        string `json:"rule_id"`
	RuleLogicHash string `json:"rule_logic_hash"`
}

// EvidenceRef points at supporting material by content hash.
type EvidenceRef struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
	Hash string `json:"hash,omitempty"`
}

// Proof carries the signer identity and an optional Ed25519 signature over
// the cell id.
type Proof struct {
	SignerID  string `json:"signer_id"`
	Signature string `json:"signature,omitempty"`
}

// Cell is the atomic ledger record. ID is the logic seal: a SHA-256 over
// the canonical {header, fact, anchor}; it must equal the recomputed hash
// at all times.
type Cell struct {
	ID       string        `json:"cell_id"`
	Header   Header        `json:"header"`
	Fact     Fact          `json:"fact"`
	Anchor   Anchor        `json:"logic_anchor"`
	Evidence []EvidenceRef `json:"evidence,omitempty"`
	Proof    *Proof        `json:"proof,omitempty"`
}

// New validates construction invariants, seals the cell, and returns it.
func New(h Header, f Fact, a Anchor) (*Cell, error) {
	if h.Version == "" {
		h.Version = FormatVersion
	}
	if !h.Type.Valid() {
		return nil, errUnknownType(h.Type)
	}
	if h.GraphID == "" {
		return nil, fmt.Errorf("cell: missing graph_id")
	}
	if h.Type == TypeGenesis {
		if h.PrevHash != NullHash {
			return nil, fmt.Errorf("cell: genesis cell must use the null predecessor hash")
		}
	} else if h.PrevHash == "" {
		return nil, fmt.Errorf("cell: non-genesis cell %s/%s has no predecessor hash", f.Subject, f.Predicate)
	}
	if err := namespace.Validate(f.Namespace); err != nil {
		return nil, err
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return nil, fmt.Errorf("cell: confidence %v out of [0,1]", f.Confidence)
	}
	if !f.SourceQuality.Valid() {
		return nil, fmt.Errorf("cell: unknown source quality %q", f.SourceQuality)
	}
	if f.Confidence == 1.0 && f.SourceQuality != QualityVerified {
		return nil, fmt.Errorf("cell: confidence 1.0 requires verified source, got %s", f.SourceQuality)
	}
	if f.ValidTo != nil && !f.ValidTo.After(f.ValidFrom) {
		return nil, fmt.Errorf("cell: empty validity window [%s, %s)", f.ValidFrom, *f.ValidTo)
	}

	c := &Cell{Header: h, Fact: f, Anchor: a}
	id, err := ComputeID(c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// sealBody is the exact byte coverage of the logic seal: header, fact, and
// anchor. Evidence and proof are attachments, not sealed content.
type sealBody struct {
	Header Header `json:"header"`
	Fact   Fact   `json:"fact"`
	Anchor Anchor `json:"logic_anchor"`
}

// ComputeID returns the SHA-256 hex id over the cell's canonical seal body.
// Any single-bit change to a covered field changes the id.
func ComputeID(c *Cell) (string, error) {
	h, err := canonical.Hash(sealBody{Header: c.Header, Fact: c.Fact, Anchor: c.Anchor})
	if err != nil {
		return "", fmt.Errorf("cell: id computation failed: %w", err)
	}
	return h, nil
}

// VerifyIntegrity recomputes the seal and compares it to the stored id.
// A tampered cell is detected, never repaired.
func (c *Cell) VerifyIntegrity() bool {
	id, err := ComputeID(c)
	if err != nil {
		return false
	}
	return id == c.ID
}

// IsGenesis reports whether the cell is the genesis variant.
func (c *Cell) IsGenesis() bool { return c.Header.Type == TypeGenesis }

// ValidAt reports whether the fact's validity window contains t
// (ValidFrom inclusive, ValidTo exclusive).
func (c *Cell) ValidAt(t time.Time) bool {
	if t.Before(c.Fact.ValidFrom) {
		return false
	}
	if c.Fact.ValidTo != nil && !t.Before(*c.Fact.ValidTo) {
		return false
	}
	return true
}

// CanonicalRuleHash computes the whitespace-insensitive SHA-256 of rule
// text, so that reformatting a rule does not change its logic hash.
func CanonicalRuleHash(ruleText string) string {
	var b strings.Builder
	for _, r := range ruleText {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
