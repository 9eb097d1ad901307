// Package chain implements the hash-linked, append-only sequence of cells
// for one graph instance. The chain is a flat ordered log plus a
// cell_id → position index; acyclicity is guaranteed by construction
// (every link points at an already-appended cell), so no pointer graph is
// needed.
package chain

import (
	"fmt"
	"sync"

	"github.com/adjudilane/verdict/pkg/cell"
)

// Chain is an append-only hash-linked cell log. Appends are serialized by
// a mutex since the head pointer must advance atomically; reads take a
// shared lock and never mutate.
type Chain struct {
	mu      sync.RWMutex
	graphID string
	cells   []*cell.Cell
	index   map[string]int
}

// New creates an empty chain for one graph instance.
func New(graphID string) *Chain {
	return &Chain{
		graphID: graphID,
		index:   make(map[string]int),
	}
}

// GraphID returns the chain's graph binding.
func (ch *Chain) GraphID() string { return ch.graphID }

// Append validates and appends a cell. Validation order: genesis rules,
// graph binding, predecessor linkage, seal integrity, clock monotonicity.
// On any failure the chain is left unmodified and a typed error is
// returned; failures are never coerced into a generic error.
func (ch *Chain) Append(c *cell.Cell) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if len(ch.cells) == 0 {
		if !c.IsGenesis() {
			return &GenesisViolation{CellID: c.ID, Reason: "first cell must be genesis"}
		}
		if c.Header.PrevHash != cell.NullHash {
			return &GenesisViolation{CellID: c.ID, Reason: "genesis predecessor must be the null hash"}
		}
	} else {
		if c.IsGenesis() {
			return &GenesisViolation{CellID: c.ID, Reason: "chain already has a genesis cell"}
		}
		if c.Header.GraphID != ch.graphID {
			return &GraphIDMismatch{CellID: c.ID, Want: ch.graphID, Got: c.Header.GraphID}
		}
		if _, ok := ch.index[c.Header.PrevHash]; !ok {
			return &ChainBreak{CellID: c.ID, PrevHash: c.Header.PrevHash}
		}
	}
	if c.Header.GraphID != ch.graphID {
		return &GraphIDMismatch{CellID: c.ID, Want: ch.graphID, Got: c.Header.GraphID}
	}
	if !c.VerifyIntegrity() {
		return &IntegrityViolation{CellID: c.ID, Detail: "stored cell_id does not match recomputed seal"}
	}
	if len(ch.cells) > 0 {
		head := ch.cells[len(ch.cells)-1]
		if c.Header.SystemTime.Before(head.Header.SystemTime) {
			return &IntegrityViolation{
				CellID: c.ID,
				Detail: fmt.Sprintf("system_time %s regresses behind head %s",
					c.Header.SystemTime.Format("2006-01-02T15:04:05.000Z07:00"),
					head.Header.SystemTime.Format("2006-01-02T15:04:05.000Z07:00")),
			}
		}
	}
	if _, dup := ch.index[c.ID]; dup {
		return &IntegrityViolation{CellID: c.ID, Detail: "duplicate cell_id"}
	}

	ch.index[c.ID] = len(ch.cells)
	ch.cells = append(ch.cells, c)
	return nil
}

// Get returns the cell with the given id, if present.
func (ch *Chain) Get(id string) (*cell.Cell, bool) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	pos, ok := ch.index[id]
	if !ok {
		return nil, false
	}
	return ch.cells[pos], true
}

// Head returns the most recently appended cell, or nil for an empty chain.
func (ch *Chain) Head() *cell.Cell {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	if len(ch.cells) == 0 {
		return nil
	}
	return ch.cells[len(ch.cells)-1]
}

// Len returns the number of cells.
func (ch *Chain) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return len(ch.cells)
}

// Cells returns a snapshot copy of the log in append order.
func (ch *Chain) Cells() []*cell.Cell {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	out := make([]*cell.Cell, len(ch.cells))
	copy(out, ch.cells)
	return out
}

// TraceToGenesis walks predecessor links from the given cell back to the
// genesis cell, returning the ancestry in walk order (cell first, genesis
// last).
func (ch *Chain) TraceToGenesis(cellID string) ([]*cell.Cell, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	pos, ok := ch.index[cellID]
	if !ok {
		return nil, fmt.Errorf("chain: cell %s not found", cellID)
	}

	var trail []*cell.Cell
	current := ch.cells[pos]
	for {
		trail = append(trail, current)
		if current.IsGenesis() {
			return trail, nil
		}
		prevPos, ok := ch.index[current.Header.PrevHash]
		if !ok {
			return nil, &ChainBreak{CellID: current.ID, PrevHash: current.Header.PrevHash}
		}
		current = ch.cells[prevPos]
	}
}
