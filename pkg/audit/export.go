package audit

import (
	"encoding/json"
	"io"
	"time"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/chain"
)

// TimelineEntry is one chain cell flattened for an examiner's timeline.
type TimelineEntry struct {
	Position   int       `json:"position"`
	CellID     string    `json:"cell_id"`
	CellType   string    `json:"cell_type"`
	SystemTime time.Time `json:"system_time"`
	Namespace  string    `json:"namespace"`
	Subject    string    `json:"subject"`
	Predicate  string    `json:"predicate"`
	Object     string    `json:"object"`
	RuleID     string    `json:"rule_id,omitempty"`
	PrevHash   string    `json:"prev_cell_hash"`
}

// Timeline replays a chain into entries in append order.
func Timeline(ch *chain.Chain) []TimelineEntry {
	cells := ch.Cells()
	out := make([]TimelineEntry, 0, len(cells))
	for i, c := range cells {
		out = append(out, TimelineEntry{
			Position:   i,
			CellID:     canonical.Prefix(c.ID),
			CellType:   string(c.Header.Type),
			SystemTime: c.Header.SystemTime,
			Namespace:  c.Fact.Namespace,
			Subject:    c.Fact.Subject,
			Predicate:  c.Fact.Predicate,
			Object:     c.Fact.Object.DisplayString(),
			RuleID:     c.Anchor.RuleID,
			PrevHash:   c.Header.PrevHash,
		})
	}
	return out
}

// WriteTimeline writes the timeline as JSON lines.
func WriteTimeline(w io.Writer, ch *chain.Chain) error {
	for _, entry := range Timeline(ch) {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
