package chain

import (
	"encoding/json"
	"fmt"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
)

// wireChain is the lossless JSON form of a chain. Cells are stored in
// append order; the index is rebuilt on load.
type wireChain struct {
	GraphID string       `json:"graph_id"`
	Cells   []*cell.Cell `json:"cells"`
}

// MarshalJSON serializes the chain losslessly.
func (ch *Chain) MarshalJSON() ([]byte, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return json.Marshal(wireChain{GraphID: ch.graphID, Cells: ch.cells})
}

// UnmarshalJSON restores a chain from its JSON form and rebuilds the index.
// The restored chain is re-validated; a serialized form that fails the
// invariant walk is rejected rather than loaded in a broken state.
func (ch *Chain) UnmarshalJSON(data []byte) error {
	var w wireChain
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("chain: decode failed: %w", err)
	}
	for i, c := range w.Cells {
		if c == nil {
			return fmt.Errorf("chain: cell %d is null", i)
		}
	}

	ch.mu.Lock()
	ch.graphID = w.GraphID
	ch.cells = w.Cells
	ch.index = make(map[string]int, len(w.Cells))
	for i, c := range w.Cells {
		ch.index[c.ID] = i
	}
	ch.mu.Unlock()

	if result := ch.Validate(); !result.IsValid {
		return fmt.Errorf("chain: deserialized chain failed validation: %s", result.Errors[0].String())
	}
	return nil
}

// CanonicalJSON returns the RFC 8785 canonical form of the chain, the
// external contract other tools use for independent verification.
func (ch *Chain) CanonicalJSON() ([]byte, error) {
	ch.mu.RLock()
	w := wireChain{GraphID: ch.graphID, Cells: ch.cells}
	ch.mu.RUnlock()
	return canonical.JCS(w)
}
