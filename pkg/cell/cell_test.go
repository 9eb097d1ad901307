package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjudilane/verdict/pkg/canonical"
)

func testHeader(t Type, prev string) Header {
	return Header{
		GraphID:    "graph-1",
		Type:       t,
		SystemTime: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		PrevHash:   prev,
	}
}

func testFact() Fact {
	return Fact{
		Namespace:     "claims.auto",
		Subject:       "claim-77",
		Predicate:     "vehicle.use_at_loss",
		Object:        canonical.String("delivery"),
		Confidence:    0.9,
		SourceQuality: QualitySelfReported,
		ValidFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewSealsCell(t *testing.T) {
	c, err := New(testHeader(TypeFact, "ab12"), testFact(), Anchor{RuleID: "r1", RuleLogicHash: CanonicalRuleHash("x > 1")})
	require.NoError(t, err)
	assert.Len(t, c.ID, 64)
	assert.True(t, c.VerifyIntegrity())
}

func TestTamperDetection(t *testing.T) {
	c, err := New(testHeader(TypeFact, "ab12"), testFact(), Anchor{})
	require.NoError(t, err)

	c.Fact.Object = canonical.String("personal")
	assert.False(t, c.VerifyIntegrity())

	// Restore and re-verify: an untampered cell always verifies.
	c.Fact.Object = canonical.String("delivery")
	assert.True(t, c.VerifyIntegrity())
}

func TestTamperDetectionEveryCoveredField(t *testing.T) {
	mutations := map[string]func(*Cell){
		"graph_id":    func(c *Cell) { c.Header.GraphID = "graph-2" },
		"system_time": func(c *Cell) { c.Header.SystemTime = c.Header.SystemTime.Add(time.Millisecond) },
		"prev_hash":   func(c *Cell) { c.Header.PrevHash = "cd34" },
		"subject":     func(c *Cell) { c.Fact.Subject = "claim-78" },
		"predicate":   func(c *Cell) { c.Fact.Predicate = "vehicle.use" },
		"confidence":  func(c *Cell) { c.Fact.Confidence = 0.91 },
		"quality":     func(c *Cell) { c.Fact.SourceQuality = QualityInferred },
		"rule_id":     func(c *Cell) { c.Anchor.RuleID = "r9" },
	}
	for name, mutate := range mutations {
		c, err := New(testHeader(TypeFact, "ab12"), testFact(), Anchor{RuleID: "r1"})
		require.NoError(t, err)
		mutate(c)
		assert.False(t, c.VerifyIntegrity(), "mutation %q not detected", name)
	}
}

func TestIDDeterministic(t *testing.T) {
	a, err := New(testHeader(TypeFact, "ab12"), testFact(), Anchor{RuleID: "r1"})
	require.NoError(t, err)
	b, err := New(testHeader(TypeFact, "ab12"), testFact(), Anchor{RuleID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestConstructionInvariants(t *testing.T) {
	// Confidence 1.0 requires verified source.
	f := testFact()
	f.Confidence = 1.0
	_, err := New(testHeader(TypeFact, "ab12"), f, Anchor{})
	assert.Error(t, err)

	f.SourceQuality = QualityVerified
	_, err = New(testHeader(TypeFact, "ab12"), f, Anchor{})
	assert.NoError(t, err)

	// Confidence bounds.
	f = testFact()
	f.Confidence = 1.2
	_, err = New(testHeader(TypeFact, "ab12"), f, Anchor{})
	assert.Error(t, err)

	// Namespace grammar.
	f = testFact()
	f.Namespace = "Claims.Auto"
	_, err = New(testHeader(TypeFact, "ab12"), f, Anchor{})
	assert.Error(t, err)

	// Genesis must carry the null predecessor hash.
	_, err = New(testHeader(TypeGenesis, "ab12"), testFact(), Anchor{})
	assert.Error(t, err)
	_, err = New(testHeader(TypeGenesis, NullHash), testFact(), Anchor{})
	assert.NoError(t, err)

	// Unknown cell type.
	_, err = New(testHeader(Type("wormhole"), "ab12"), testFact(), Anchor{})
	assert.Error(t, err)

	// Empty validity window.
	f = testFact()
	to := f.ValidFrom
	f.ValidTo = &to
	_, err = New(testHeader(TypeFact, "ab12"), f, Anchor{})
	assert.Error(t, err)
}

func TestValidAt(t *testing.T) {
	f := testFact()
	to := f.ValidFrom.Add(48 * time.Hour)
	f.ValidTo = &to
	c, err := New(testHeader(TypeFact, "ab12"), f, Anchor{})
	require.NoError(t, err)

	assert.False(t, c.ValidAt(f.ValidFrom.Add(-time.Hour)))
	assert.True(t, c.ValidAt(f.ValidFrom))
	assert.True(t, c.ValidAt(f.ValidFrom.Add(time.Hour)))
	assert.False(t, c.ValidAt(to)) // exclusive upper bound
}

func TestCanonicalRuleHashWhitespaceInsensitive(t *testing.T) {
	a := CanonicalRuleHash("amount > 10000 AND country IN high_risk")
	b := CanonicalRuleHash("amount>10000\n\tAND country   IN high_risk")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, CanonicalRuleHash("amount > 10001 AND country IN high_risk"))
}

func TestSourceQualityRank(t *testing.T) {
	assert.Greater(t, QualityVerified.Rank(), QualitySelfReported.Rank())
	assert.Greater(t, QualitySelfReported.Rank(), QualityInferred.Rank())
	assert.False(t, SourceQuality("hearsay").Valid())
}
