package precedent

import (
	"fmt"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/domain"
)

// ScoreConfig carries the calibration constants of the scorer. The driver
// multiplier is governance-reviewed policy: never casually tweak it.
type ScoreConfig struct {
	DriverMultiplier float64
}

// DefaultScoreConfig returns the enacted calibration: a field that was
// historically decisive weighs twice as much.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{DriverMultiplier: 2.0}
}

// FieldScore is the per-field line item of the audit-facing breakdown.
type FieldScore struct {
	Field      string  `json:"field"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"`
	Multiplier float64 `json:"multiplier"`
	Driver     bool    `json:"driver"`
}

// Similarity is the full structured result of scoring one (case, seed)
// pair. Every aggregate number is explainable field-by-field.
type Similarity struct {
	Score           float64      `json:"score"`
	Numerator       float64      `json:"numerator"`
	Denominator     float64      `json:"denominator"`
	NonTransferable bool         `json:"non_transferable"`
	Reasons         []string     `json:"reasons,omitempty"`
	DriversMatched  []string     `json:"drivers_matched"`
	DriversMissed   []string     `json:"drivers_missed"`
	ContextMatched  []string     `json:"context_matched"`
	Fields          []FieldScore `json:"fields"`
	SkippedMissing  []string     `json:"skipped_missing"`
}

// Score computes the driver-aware weighted similarity of a case against
// one precedent seed using the default calibration.
func Score(reg *domain.Registry, caseFacts map[string]canonical.Value, seed *Seed) Similarity {
	return ScoreWith(DefaultScoreConfig(), reg, caseFacts, seed)
}

// ScoreWith is Score with explicit calibration.
//
// Per scoring-eligible field (STRUCTURAL fields were already enforced by
// the comparability gate): both sides absent skips the field without
// penalty; a driver absent from the case marks the whole match
// non-transferable; a driver scoring 0.0 is a contradiction and also
// marks non-transferable. The final score is the weighted mean over the
// evaluated fields and always lies in [0,1].
func ScoreWith(cfg ScoreConfig, reg *domain.Registry, caseFacts map[string]canonical.Value, seed *Seed) Similarity {
	sim := Similarity{
		DriversMatched: []string{},
		DriversMissed:  []string{},
		ContextMatched: []string{},
		Fields:         []FieldScore{},
		SkippedMissing: []string{},
	}

	for _, field := range reg.ScoringFields() {
		caseVal, caseOK := caseFacts[field.ID]
		precVal, precOK := seed.Facts[field.ID]
		driver := seed.IsDriver(field.ID)

		if !caseOK && !precOK {
			sim.SkippedMissing = append(sim.SkippedMissing, field.ID)
			continue
		}

		if driver && !caseOK {
			sim.NonTransferable = true
			sim.Reasons = append(sim.Reasons, fmt.Sprintf(
				"driver %s was decisive for this precedent but is absent from the current case", field.ID))
			sim.DriversMissed = append(sim.DriversMissed, field.ID)
			continue
		}

		if !caseOK || !precOK {
			// One side silent on a non-decisive field: no comparison is
			// possible, and absence of evidence is not penalized.
			sim.SkippedMissing = append(sim.SkippedMissing, field.ID)
			continue
		}

		score := field.Score(caseVal, precVal)
		multiplier := 1.0
		if driver {
			multiplier = cfg.DriverMultiplier
			if score == 0 {
				sim.NonTransferable = true
				sim.Reasons = append(sim.Reasons, fmt.Sprintf(
					"driver contradiction on %s: precedent=%s, case=%s",
					field.ID, precVal.DisplayString(), caseVal.DisplayString()))
				sim.DriversMissed = append(sim.DriversMissed, field.ID)
			} else {
				sim.DriversMatched = append(sim.DriversMatched, field.ID)
			}
		} else if score == 1 {
			sim.ContextMatched = append(sim.ContextMatched, field.ID)
		}

		sim.Fields = append(sim.Fields, FieldScore{
			Field:      field.ID,
			Score:      score,
			Weight:     field.Weight,
			Multiplier: multiplier,
			Driver:     driver,
		})
		sim.Numerator += field.Weight * multiplier * score
		sim.Denominator += field.Weight * multiplier
	}

	if sim.Denominator > 0 {
		sim.Score = sim.Numerator / sim.Denominator
	}
	if sim.Score < 0 || sim.Score > 1 {
		// The weighted mean of [0,1] terms cannot leave [0,1]; reaching
		// this means a comparison function broke its contract.
		panic(fmt.Sprintf("precedent: similarity %v out of [0,1] for seed %s", sim.Score, seed.ID))
	}
	return sim
}
