package scholar

import (
	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
	"github.com/adjudilane/verdict/pkg/chain"
	"github.com/adjudilane/verdict/pkg/namespace"
)

// Bridge cells are stored on the ledger with the source namespace as the
// fact namespace, predicate "bridges_to", and a structured object holding
// the target namespace and both owner signatures. The fact's validity
// window is the bridge's effective window; the header's system_time is
// when the grant was recorded. A later override cell with predicate
// "revokes" and the bridge's cell_id as object revokes it.

const (
	predicateBridgesTo = "bridges_to"
	predicateRevokes   = "revokes"
)

// NewBridgeFact builds the fact payload for a bridge cell.
func NewBridgeFact(target, sourceSig, targetSig string) map[string]interface{} {
	return map[string]interface{}{
		"target":     target,
		"source_sig": sourceSig,
		"target_sig": targetSig,
	}
}

// bridgeFromCell decodes a bridge_rule cell into a namespace.Bridge.
// Malformed bridge cells are skipped by the caller (nil return).
func bridgeFromCell(c *cell.Cell) *namespace.Bridge {
	if c.Header.Type != cell.TypeBridgeRule || c.Fact.Predicate != predicateBridgesTo {
		return nil
	}
	if c.Fact.Object.Kind != canonical.KindStructured {
		return nil
	}
	fields := c.Fact.Object.Fields
	target, _ := fields["target"].(string)
	sourceSig, _ := fields["source_sig"].(string)
	targetSig, _ := fields["target_sig"].(string)

	b, err := namespace.NewBridge(
		c.ID,
		c.Fact.Namespace,
		target,
		c.Header.SystemTime,
		c.Fact.ValidFrom,
		c.Fact.ValidTo,
		sourceSig,
		targetSig,
	)
	if err != nil {
		return nil
	}
	return b
}

// collectBridges scans the chain for bridge cells and their revocations,
// honoring the system-time horizon: a revocation recorded after asOfSystem
// is not yet known to the querier and does not apply.
func collectBridges(ch *chain.Chain, req QueryRequest) []*namespace.Bridge {
	revoked := make(map[string]bool)
	var bridges []*namespace.Bridge

	for _, c := range ch.Cells() {
		if c.Header.Type == cell.TypeOverride && c.Fact.Predicate == predicateRevokes {
			if c.Header.SystemTime.After(req.AsOfSystemTime) {
				continue
			}
			if c.Fact.Object.Kind == canonical.KindString {
				revoked[c.Fact.Object.Str] = true
			}
			continue
		}
		if b := bridgeFromCell(c); b != nil {
			bridges = append(bridges, b)
		}
	}

	for _, b := range bridges {
		if revoked[b.CellID] {
			b.Revoked = true
		}
	}
	return bridges
}
