package chain

import "fmt"

// The append-time failure taxonomy. Each kind is a distinct error type so
// callers can dispatch with errors.As, and each carries enough detail to
// locate the exact offending cell and invariant without re-deriving the
// chain by hand.

// GenesisViolation reports a broken genesis rule: a duplicate genesis, an
// append before genesis, or a genesis with a non-null predecessor.
type GenesisViolation struct {
	CellID string
	Reason string
}

func (e *GenesisViolation) Error() string {
	return fmt.Sprintf("chain: genesis violation on cell %s: %s", e.CellID, e.Reason)
}

// GraphIDMismatch reports cross-graph contamination: a cell bound to a
// different graph instance than the chain's.
type GraphIDMismatch struct {
	CellID string
	Want   string
	Got    string
}

func (e *GraphIDMismatch) Error() string {
	return fmt.Sprintf("chain: cell %s belongs to graph %q, chain is graph %q", e.CellID, e.Got, e.Want)
}

// ChainBreak reports a predecessor link that does not resolve to any cell
// in this chain.
type ChainBreak struct {
	CellID   string
	PrevHash string
}

func (e *ChainBreak) Error() string {
	return fmt.Sprintf("chain: cell %s references unknown predecessor %s", e.CellID, e.PrevHash)
}

// IntegrityViolation reports a cell whose stored id does not match its
// recomputed seal, or a clock regression that would break auditability.
type IntegrityViolation struct {
	CellID string
	Detail string
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("chain: integrity violation on cell %s: %s", e.CellID, e.Detail)
}
