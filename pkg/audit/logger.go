// Package audit records decision and query events as JSON lines, and
// replays chains into audit timelines for examiners.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adjudilane/verdict/pkg/clock"
)

// EventType categorizes audit events.
type EventType string

const (
	EventDecision   EventType = "DECISION"
	EventQuery      EventType = "QUERY"
	EventSimulation EventType = "SIMULATION"
	EventSystem     EventType = "SYSTEM"
)

// Event is one structured audit record.
type Event struct {
	ID        string                 `json:"id"`
	ActorID   string                 `json:"actor_id"`
	Type      EventType              `json:"type"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Logger writes one JSON line per event to a configurable writer.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	clock  clock.Clock
}

// NewLogger writes to os.Stdout.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter allows injection of the sink for tests and files.
func NewLoggerWithWriter(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{writer: w, clock: clock.NewMonotonic()}
}

// WithClock overrides the timestamp source.
func (l *Logger) WithClock(c clock.Clock) *Logger {
	l.clock = c
	return l
}

// Record writes one event. Safe for concurrent use.
func (l *Logger) Record(actorID string, eventType EventType, action, resource string, metadata map[string]interface{}) error {
	if actorID == "" {
		actorID = "system"
	}
	event := Event{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Type:      eventType,
		Action:    action,
		Resource:  resource,
		Timestamp: l.clock.Now(),
		Metadata:  metadata,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = l.writer.Write(append(data, '\n'))
	return err
}
