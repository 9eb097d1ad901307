package chain

import (
	"fmt"

	"github.com/adjudilane/verdict/pkg/cell"
)

// ValidationError locates one broken invariant for the auditor: which cell,
// which invariant, and what exactly was observed.
type ValidationError struct {
	CellID    string `json:"cell_id"`
	Position  int    `json:"position"`
	Invariant string `json:"invariant"`
	Detail    string `json:"detail"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("cell %s (position %d): %s: %s", e.CellID, e.Position, e.Invariant, e.Detail)
}

// ValidationResult is the outcome of a full-chain audit walk.
type ValidationResult struct {
	IsValid      bool              `json:"is_valid"`
	Errors       []ValidationError `json:"errors"`
	CellsChecked int               `json:"cells_checked"`
}

// Validate re-walks the whole chain and re-checks every structural
// invariant: single leading genesis, resolvable predecessor links,
// graph binding, seal integrity, and system-time monotonicity.
// This is the audit path, not the hot path.
func (ch *Chain) Validate() ValidationResult {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	result := ValidationResult{IsValid: true, Errors: []ValidationError{}}
	seen := make(map[string]int, len(ch.cells))

	for i, c := range ch.cells {
		result.CellsChecked++

		if i == 0 {
			if !c.IsGenesis() {
				result.fail(c.ID, i, "genesis", "first cell is not a genesis cell")
			} else if c.Header.PrevHash != cell.NullHash {
				result.fail(c.ID, i, "genesis", "genesis predecessor is not the null hash")
			}
		} else {
			if c.IsGenesis() {
				result.fail(c.ID, i, "genesis", "duplicate genesis cell")
			}
			if pos, ok := seen[c.Header.PrevHash]; !ok {
				result.fail(c.ID, i, "linkage", fmt.Sprintf("predecessor %s not found among earlier cells", c.Header.PrevHash))
			} else if pos >= i {
				result.fail(c.ID, i, "linkage", "predecessor appears after referencing cell")
			}
			prev := ch.cells[i-1]
			if c.Header.SystemTime.Before(prev.Header.SystemTime) {
				result.fail(c.ID, i, "system_time", fmt.Sprintf("system_time regresses behind cell %s", prev.ID))
			}
		}

		if c.Header.GraphID != ch.graphID {
			result.fail(c.ID, i, "graph_id", fmt.Sprintf("cell bound to graph %q, chain is %q", c.Header.GraphID, ch.graphID))
		}
		if !c.VerifyIntegrity() {
			result.fail(c.ID, i, "integrity", "stored cell_id does not match recomputed seal")
		}
		if _, dup := seen[c.ID]; dup {
			result.fail(c.ID, i, "integrity", "duplicate cell_id")
		}
		seen[c.ID] = i
	}

	return result
}

func (r *ValidationResult) fail(cellID string, pos int, invariant, detail string) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{CellID: cellID, Position: pos, Invariant: invariant, Detail: detail})
}
