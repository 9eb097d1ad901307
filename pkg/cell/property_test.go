// Package cell property tests: seal determinism and tamper sensitivity.
package cell

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// TestSealDeterminism verifies the logic seal is a pure function of cell content.
// Property: New(h, f, a).ID == New(h, f, a).ID for any valid inputs.
func TestSealDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("seal is deterministic", prop.ForAll(
		func(subject, predicate, object string, confidence float64) bool {
			if subject == "" || predicate == "" {
				return true
			}
			h := Header{
				GraphID:    "graph-p",
				Type:       TypeFact,
				SystemTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
				PrevHash:   "ab12",
			}
			f := Fact{
				Namespace:     "claims.auto",
				Subject:       subject,
				Predicate:     predicate,
				Object:        canonical.String(object),
				Confidence:    confidence,
				SourceQuality: QualitySelfReported,
				ValidFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			a, errA := New(h, f, Anchor{RuleID: "r1"})
			b, errB := New(h, f, Anchor{RuleID: "r1"})
			if errA != nil || errB != nil {
				return errA != nil && errB != nil
			}
			return a.ID == b.ID
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AnyString(),
		gen.Float64Range(0, 0.99),
	))

	properties.TestingRun(t)
}

// TestSealTamperSensitivity verifies any object change changes the id.
func TestSealTamperSensitivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("distinct objects never collide on the seal", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return true
			}
			h := Header{
				GraphID:    "graph-p",
				Type:       TypeFact,
				SystemTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
				PrevHash:   "ab12",
			}
			f := Fact{
				Namespace:     "claims.auto",
				Subject:       "s",
				Predicate:     "p",
				Confidence:    0.5,
				SourceQuality: QualityInferred,
				ValidFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			f.Object = canonical.String(a)
			ca, err := New(h, f, Anchor{})
			if err != nil {
				return false
			}
			f.Object = canonical.String(b)
			cb, err := New(h, f, Anchor{})
			if err != nil {
				return false
			}
			return ca.ID != cb.ID
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
