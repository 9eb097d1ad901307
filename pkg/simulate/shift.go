package simulate

import (
	"github.com/adjudilane/verdict/pkg/precedent"
)

// DraftShift is a proposed policy change under evaluation. OldValue and
// NewValue are the parameter's values before and after; their shapes
// drive the outcome heuristics when no enacted shadow function applies.
type DraftShift struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Parameter          string      `json:"parameter"`
	OldValue           interface{} `json:"old_value"`
	NewValue           interface{} `json:"new_value"`
	TriggerSignals     []string    `json:"trigger_signals"`
	AffectedTypologies []string    `json:"affected_typologies,omitempty"`
	Citation           string      `json:"citation,omitempty"`
}

// ShadowOutcome recomputes a seed's disposition and reporting as if the
// shift had been in force when the seed was decided.
type ShadowOutcome func(seed *precedent.Seed) (precedent.Disposition, precedent.Reporting)

// EnactedShift is a previously adopted policy shift whose shadow-outcome
// function is on record. A draft targeting the same parameter reuses it
// instead of falling back to shape heuristics.
type EnactedShift struct {
	ID        string
	Parameter string
	Shadow    ShadowOutcome
}

// Direction classifies a single case's movement under a shift, by the
// severity ranking of dispositions.
type Direction string

const (
	DirectionUp        Direction = "UP"
	DirectionDown      Direction = "DOWN"
	DirectionUnchanged Direction = "UNCHANGED"
)

func direction(before, after precedent.Disposition) Direction {
	b, a := before.Severity(), after.Severity()
	switch {
	case a > b:
		return DirectionUp
	case a < b:
		return DirectionDown
	default:
		return DirectionUnchanged
	}
}

// Trend classifies the movement of a typology's governed confidence.
type Trend string

const (
	TrendImproved  Trend = "IMPROVED"
	TrendDegraded  Trend = "DEGRADED"
	TrendUnchanged Trend = "UNCHANGED"
)

// Magnitude is the overall classification of a simulated shift's
// institutional impact.
type Magnitude string

const (
	MagnitudeFundamental Magnitude = "FUNDAMENTAL"
	MagnitudeSignificant Magnitude = "SIGNIFICANT"
	MagnitudeModerate    Magnitude = "MODERATE"
	MagnitudeMinor       Magnitude = "MINOR"
)
