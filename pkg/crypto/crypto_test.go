package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
)

func sampleCell(t *testing.T) *cell.Cell {
	t.Helper()
	c, err := cell.New(cell.Header{
		GraphID:    "graph-test",
		Type:       cell.TypeFact,
		SystemTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		PrevHash:   strings.Repeat("a", 64),
	}, cell.Fact{
		Namespace:     "kyc.core",
		Subject:       "cust-1",
		Predicate:     "risk_rating",
		Object:        canonical.String("low"),
		Confidence:    0.9,
		SourceQuality: cell.QualitySelfReported,
		ValidFrom:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, cell.Anchor{})
	require.NoError(t, err)
	return c
}

func TestSignAndVerifyCell(t *testing.T) {
	s, err := NewSigner("analyst-1")
	require.NoError(t, err)

	c := sampleCell(t)
	require.NoError(t, s.SignCell(c))
	require.NotNil(t, c.Proof)
	assert.Equal(t, "analyst-1", c.Proof.SignerID)

	ok, err := VerifyCell(c, s.PublicKey())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongKeyFailsCleanly(t *testing.T) {
	s1, err := NewSigner("analyst-1")
	require.NoError(t, err)
	s2, err := NewSigner("analyst-2")
	require.NoError(t, err)

	c := sampleCell(t)
	require.NoError(t, s1.SignCell(c))

	ok, err := VerifyCell(c, s2.PublicKey())
	require.NoError(t, err, "a well-formed wrong key is not a format error")
	assert.False(t, ok)
}

func TestVerifyMalformedInputsAreErrors(t *testing.T) {
	s, err := NewSigner("analyst-1")
	require.NoError(t, err)
	c := sampleCell(t)
	require.NoError(t, s.SignCell(c))

	_, err = VerifyCell(c, "not-hex")
	assert.Error(t, err)

	_, err = VerifyCell(c, "abcd")
	assert.Error(t, err, "short key is a size error")

	c2 := sampleCell(t)
	c2.Proof = &cell.Proof{SignerID: "x", Signature: "zz"}
	_, err = VerifyCell(c2, s.PublicKey())
	assert.Error(t, err)

	c3 := sampleCell(t)
	_, err = VerifyCell(c3, s.PublicKey())
	assert.Error(t, err, "missing proof is a format error")
}

func TestVerifyTamperedCell(t *testing.T) {
	s, err := NewSigner("analyst-1")
	require.NoError(t, err)
	c := sampleCell(t)
	require.NoError(t, s.SignCell(c))

	c.Fact.Object = canonical.String("high")
	ok, err := VerifyCell(c, s.PublicKey())
	require.NoError(t, err)
	assert.False(t, ok, "tampered content must not verify")
}

func TestSignUnsealedCellRejected(t *testing.T) {
	s, err := NewSigner("analyst-1")
	require.NoError(t, err)
	assert.Error(t, s.SignCell(&cell.Cell{}))
}
