// Package domain declares, per business domain, what "comparable" means:
// the canonical fields, their comparison semantics and weights, and the
// hard comparability gates. It is versioned declarative configuration,
// not runtime state.
package domain

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// Tier places a field in the comparison hierarchy. STRUCTURAL fields are
// enforced by gates and excluded from similarity scoring.
type Tier string

const (
	TierStructural Tier = "STRUCTURAL"
	TierBehavioral Tier = "BEHAVIORAL"
	TierContextual Tier = "CONTEXTUAL"
)

// CompareKind is the closed set of comparison functions. Dispatch is a
// single exhaustive switch in Score.
type CompareKind string

const (
	CompareExact        CompareKind = "EXACT"
	CompareEquivalence  CompareKind = "EQUIVALENCE_CLASS"
	CompareStep         CompareKind = "STEP"
	CompareNumericDecay CompareKind = "NUMERIC_DECAY"
	CompareBoolean      CompareKind = "BOOLEAN_EXACT"
)

// FieldDefinition is an immutable declarative description of one
// comparable field.
type FieldDefinition struct {
	ID       string      `json:"id" yaml:"id"`
	Label    string      `json:"label" yaml:"label"`
	Compare  CompareKind `json:"compare" yaml:"compare"`
	Weight   float64     `json:"weight" yaml:"weight"`
	Tier     Tier        `json:"tier" yaml:"tier"`
	Critical bool        `json:"critical,omitempty" yaml:"critical,omitempty"`

	// EquivalenceClasses maps class name to member values (EQUIVALENCE_CLASS).
	EquivalenceClasses map[string][]string `json:"equivalence_classes,omitempty" yaml:"equivalence_classes,omitempty"`
	// Ladder is the ordered value sequence for STEP comparison.
	Ladder []string `json:"ladder,omitempty" yaml:"ladder,omitempty"`
	// DecayScale is the distance at which NUMERIC_DECAY credit halves.
	DecayScale float64 `json:"decay_scale,omitempty" yaml:"decay_scale,omitempty"`
}

// NewField validates construction invariants and returns the definition.
func NewField(def FieldDefinition) (FieldDefinition, error) {
	if def.ID == "" {
		return def, fmt.Errorf("domain: field with empty id")
	}
	if def.Weight < 0 || def.Weight > 1 {
		return def, fmt.Errorf("domain: field %s weight %v out of [0,1]", def.ID, def.Weight)
	}
	switch def.Compare {
	case CompareExact, CompareBoolean:
	case CompareEquivalence:
		if len(def.EquivalenceClasses) == 0 {
			return def, fmt.Errorf("domain: field %s uses EQUIVALENCE_CLASS without classes", def.ID)
		}
	case CompareStep:
		if len(def.Ladder) < 2 {
			return def, fmt.Errorf("domain: field %s uses STEP without an ordered ladder", def.ID)
		}
	case CompareNumericDecay:
		if def.DecayScale <= 0 {
			return def, fmt.Errorf("domain: field %s uses NUMERIC_DECAY without a positive decay scale", def.ID)
		}
	default:
		return def, fmt.Errorf("domain: field %s has unknown comparison %q", def.ID, def.Compare)
	}
	return def, nil
}

var foldCaser = cases.Fold()

func fold(s string) string { return foldCaser.String(s) }

// Score computes the per-field match score in [0,1] for a case value
// against a precedent value, per the field's declared comparison.
func (f FieldDefinition) Score(caseVal, precVal canonical.Value) float64 {
	switch f.Compare {
	case CompareExact:
		return scoreExact(caseVal, precVal)
	case CompareBoolean:
		if caseVal.Kind == canonical.KindBool && precVal.Kind == canonical.KindBool && caseVal.Bool == precVal.Bool {
			return 1
		}
		return 0
	case CompareEquivalence:
		return f.scoreEquivalence(caseVal, precVal)
	case CompareStep:
		return f.scoreStep(caseVal, precVal)
	case CompareNumericDecay:
		return f.scoreDecay(caseVal, precVal)
	default:
		return 0
	}
}

func scoreExact(a, b canonical.Value) float64 {
	if a.Kind == canonical.KindString && b.Kind == canonical.KindString {
		if fold(a.Str) == fold(b.Str) {
			return 1
		}
		return 0
	}
	if a.Equal(b) {
		return 1
	}
	return 0
}

// ClassOf returns the equivalence class of a raw value, case-folded, or
// "" when the value classifies to nothing.
func (f FieldDefinition) ClassOf(v canonical.Value) string {
	raw := fold(v.DisplayString())
	for class, members := range f.EquivalenceClasses {
		for _, m := range members {
			if fold(m) == raw {
				return class
			}
		}
	}
	return ""
}

func (f FieldDefinition) scoreEquivalence(caseVal, precVal canonical.Value) float64 {
	cc, pc := f.ClassOf(caseVal), f.ClassOf(precVal)
	if cc != "" && cc == pc {
		return 1
	}
	// Unclassified values still match on raw equality.
	if cc == "" && pc == "" && fold(caseVal.DisplayString()) == fold(precVal.DisplayString()) {
		return 1
	}
	return 0
}

// scoreStep gives graduated partial credit by ordinal distance on the
// ladder: adjacent rungs score close to 1, opposite ends score 0.
func (f FieldDefinition) scoreStep(caseVal, precVal canonical.Value) float64 {
	ci, pi := f.ladderIndex(caseVal), f.ladderIndex(precVal)
	if ci < 0 || pi < 0 {
		if fold(caseVal.DisplayString()) == fold(precVal.DisplayString()) {
			return 1
		}
		return 0
	}
	span := float64(len(f.Ladder) - 1)
	return 1 - math.Abs(float64(ci-pi))/span
}

func (f FieldDefinition) ladderIndex(v canonical.Value) int {
	raw := fold(v.DisplayString())
	for i, rung := range f.Ladder {
		if fold(rung) == raw {
			return i
		}
	}
	return -1
}

// scoreDecay applies smooth distance decay for continuous and count
// fields: equal values score 1, a gap of DecayScale scores 0.5.
func (f FieldDefinition) scoreDecay(caseVal, precVal canonical.Value) float64 {
	if caseVal.Kind != canonical.KindNumber || precVal.Kind != canonical.KindNumber {
		return scoreExact(caseVal, precVal)
	}
	d := math.Abs(caseVal.Num - precVal.Num)
	return 1 / (1 + d/f.DecayScale)
}
