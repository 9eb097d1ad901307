package namespace

import (
	"fmt"
	"time"
)

// ReasonCode reports why a bridge is or is not usable at a pair of
// bitemporal coordinates. The four denial reasons are distinct outcomes
// and are never collapsed into a generic "denied".
type ReasonCode string

const (
	ReasonEffective    ReasonCode = "effective"
	ReasonNotYetKnown  ReasonCode = "not_yet_known" // bridge recorded after the query's system-time horizon
	ReasonNotYetActive ReasonCode = "not_yet_active"
	ReasonExpired      ReasonCode = "expired"
	ReasonRevoked      ReasonCode = "revoked"
)

// Bridge grants cross-namespace visibility from Source to Target. It is
// valid only with explicit signatures from both namespace owners, and it
// carries its own bitemporal window: SystemTime is when the grant was
// recorded, ValidFrom/ValidTo is when the grant is effective.
// Stored on the ledger as a bridge_rule cell; CellID back-references it.
type Bridge struct {
	CellID     string     `json:"cell_id"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	SystemTime time.Time  `json:"system_time"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to,omitempty"`
	SourceSig  string     `json:"source_sig"`
	TargetSig  string     `json:"target_sig"`
	Revoked    bool       `json:"revoked,omitempty"`
}

// NewBridge validates and constructs a bridge. Both owner signatures are
// required; a single-signed bridge is not a bridge.
func NewBridge(cellID, source, target string, systemTime, validFrom time.Time, validTo *time.Time, sourceSig, targetSig string) (*Bridge, error) {
	if err := Validate(source); err != nil {
		return nil, fmt.Errorf("namespace: bridge source: %w", err)
	}
	if err := Validate(target); err != nil {
		return nil, fmt.Errorf("namespace: bridge target: %w", err)
	}
	if sourceSig == "" || targetSig == "" {
		return nil, fmt.Errorf("namespace: bridge %s->%s requires signatures from both owners", source, target)
	}
	if validTo != nil && !validTo.After(validFrom) {
		return nil, fmt.Errorf("namespace: bridge %s->%s has empty validity window", source, target)
	}
	return &Bridge{
		CellID:     cellID,
		Source:     source,
		Target:     target,
		SystemTime: systemTime,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		SourceSig:  sourceSig,
		TargetSig:  targetSig,
	}, nil
}

// Effectiveness is the verdict on a bridge at given bitemporal coordinates.
type Effectiveness struct {
	BridgeCellID string     `json:"bridge_cell_id"`
	Effective    bool       `json:"effective"`
	Reason       ReasonCode `json:"reason"`
}

// IsEffective evaluates the bridge at (atValid, asOfSystem).
//
// A bridge is usable iff all of: not revoked; SystemTime <= asOfSystem
// (the bridge was known at query time; rejecting this prevents a querier
// claiming knowledge of a bridge before it existed); ValidFrom <= atValid;
// and ValidTo is unset or atValid < ValidTo.
func (b *Bridge) IsEffective(atValid, asOfSystem time.Time) Effectiveness {
	eff := Effectiveness{BridgeCellID: b.CellID}
	switch {
	case b.Revoked:
		eff.Reason = ReasonRevoked
	case b.SystemTime.After(asOfSystem):
		eff.Reason = ReasonNotYetKnown
	case b.ValidFrom.After(atValid):
		eff.Reason = ReasonNotYetActive
	case b.ValidTo != nil && !atValid.Before(*b.ValidTo):
		eff.Reason = ReasonExpired
	default:
		eff.Effective = true
		eff.Reason = ReasonEffective
	}
	return eff
}
