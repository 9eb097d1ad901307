package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjudilane/verdict/pkg/canonical"
)

func TestNewFieldInvariants(t *testing.T) {
	_, err := NewField(FieldDefinition{ID: "f", Compare: CompareExact, Weight: 1.5})
	assert.Error(t, err, "weight out of range")

	_, err = NewField(FieldDefinition{ID: "f", Compare: CompareEquivalence, Weight: 0.5})
	assert.Error(t, err, "equivalence needs classes")

	_, err = NewField(FieldDefinition{ID: "f", Compare: CompareStep, Weight: 0.5, Ladder: []string{"only"}})
	assert.Error(t, err, "step needs a ladder")

	_, err = NewField(FieldDefinition{ID: "f", Compare: CompareNumericDecay, Weight: 0.5})
	assert.Error(t, err, "decay needs a scale")

	_, err = NewField(FieldDefinition{ID: "f", Compare: CompareKind("FUZZY"), Weight: 0.5})
	assert.Error(t, err, "unknown comparison")

	_, err = NewField(FieldDefinition{ID: "f", Compare: CompareExact, Weight: 0.5})
	assert.NoError(t, err)
}

func TestScoreExactFoldsCase(t *testing.T) {
	f, err := NewField(FieldDefinition{ID: "f", Compare: CompareExact, Weight: 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Score(canonical.String("Delivery"), canonical.String("delivery")))
	assert.Equal(t, 0.0, f.Score(canonical.String("delivery"), canonical.String("personal")))
}

func TestScoreEquivalenceClass(t *testing.T) {
	f, err := NewField(FieldDefinition{
		ID: "use", Compare: CompareEquivalence, Weight: 1,
		EquivalenceClasses: map[string][]string{
			"commercial": {"delivery", "rideshare"},
			"personal":   {"personal", "commute"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, f.Score(canonical.String("delivery"), canonical.String("RIDESHARE")))
	assert.Equal(t, 0.0, f.Score(canonical.String("delivery"), canonical.String("commute")))
	// Unclassified values still match on raw equality.
	assert.Equal(t, 1.0, f.Score(canonical.String("farm_use"), canonical.String("farm_use")))
	assert.Equal(t, 0.0, f.Score(canonical.String("farm_use"), canonical.String("delivery")))
}

func TestScoreStepGraduatedCredit(t *testing.T) {
	f, err := NewField(FieldDefinition{
		ID: "risk", Compare: CompareStep, Weight: 1,
		Ladder: []string{"low", "medium", "high", "sanctioned"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, f.Score(canonical.String("high"), canonical.String("high")))
	assert.InDelta(t, 2.0/3.0, f.Score(canonical.String("low"), canonical.String("medium")), 1e-9)
	assert.InDelta(t, 1.0/3.0, f.Score(canonical.String("low"), canonical.String("high")), 1e-9)
	assert.Equal(t, 0.0, f.Score(canonical.String("low"), canonical.String("sanctioned")))
}

func TestScoreNumericDecay(t *testing.T) {
	f, err := NewField(FieldDefinition{ID: "amt", Compare: CompareNumericDecay, Weight: 1, DecayScale: 5000})
	require.NoError(t, err)

	assert.Equal(t, 1.0, f.Score(canonical.Number(10000), canonical.Number(10000)))
	assert.InDelta(t, 0.5, f.Score(canonical.Number(10000), canonical.Number(15000)), 1e-9)
	assert.Less(t, f.Score(canonical.Number(10000), canonical.Number(40000)), 0.2)
}

func TestBuiltinsValid(t *testing.T) {
	for _, r := range []*Registry{Banking(), Insurance()} {
		assert.NotEmpty(t, r.Fields)
		assert.NotEmpty(t, r.Gates)
		assert.NotEmpty(t, r.CriticalFields())
		assert.Positive(t, r.MinPoolSize)
		for _, f := range r.ScoringFields() {
			assert.NotEqual(t, TierStructural, f.Tier)
		}
	}
}

func TestEvaluateGatesAllMustPass(t *testing.T) {
	r := Banking()

	caseFacts := map[string]canonical.Value{
		"customer.type":    canonical.String("individual"),
		"transaction.type": canonical.String("wire"),
	}
	precFacts := map[string]canonical.Value{
		"customer.type":    canonical.String("retail"), // same class as individual
		"transaction.type": canonical.String("swift"),  // same class as wire
	}
	res := EvaluateGates(r, caseFacts, precFacts)
	assert.True(t, res.Passed)
	require.Len(t, res.Checks, 2)

	// One divergent gate fails the whole pair.
	precFacts["transaction.type"] = canonical.String("cash")
	res = EvaluateGates(r, caseFacts, precFacts)
	assert.False(t, res.Passed)
	assert.True(t, res.Checks[0].Passed)
	assert.False(t, res.Checks[1].Passed)
	assert.Contains(t, res.Checks[1].Reason, "transaction.type")
}

func TestEvaluateGatesMissingValue(t *testing.T) {
	r := Insurance()
	res := EvaluateGates(r,
		map[string]canonical.Value{},
		map[string]canonical.Value{"coverage.line": canonical.String("auto")})
	assert.False(t, res.Passed)
	assert.Contains(t, res.Checks[0].Reason, "absent")
}

func TestEvaluateGatesUnclassifiedValue(t *testing.T) {
	r := Insurance()
	res := EvaluateGates(r,
		map[string]canonical.Value{"coverage.line": canonical.String("marine")},
		map[string]canonical.Value{"coverage.line": canonical.String("auto")})
	assert.False(t, res.Passed)
}

func TestLoadRegistryYAML(t *testing.T) {
	doc := `
domain: banking
version: 2.0.0
min_pool_size: 5
fields:
  - id: transaction.type
    label: Transaction type
    compare: EQUIVALENCE_CLASS
    weight: 1.0
    tier: BEHAVIORAL
    critical: true
    equivalence_classes:
      wire: [wire, swift]
      cash: [cash]
gates:
  - field: transaction.type
    classes:
      wire: [wire, swift]
      cash: [cash]
`
	r, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "banking", r.Domain)
	assert.Equal(t, 5, r.MinPoolSize)
	f, ok := r.Field("transaction.type")
	require.True(t, ok)
	assert.True(t, f.Critical)
}

func TestLoadRegistryRejectsBadField(t *testing.T) {
	doc := `
domain: banking
fields:
  - id: broken
    compare: EQUIVALENCE_CLASS
    weight: 0.5
`
	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}
