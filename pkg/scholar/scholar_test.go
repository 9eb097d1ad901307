package scholar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
	"github.com/adjudilane/verdict/pkg/chain"
	"github.com/adjudilane/verdict/pkg/clock"
)

type ledgerFixture struct {
	t   *testing.T
	ch  *chain.Chain
	clk *clock.Manual
}

func newLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		t:   t,
		ch:  chain.New("graph-1"),
		clk: clock.NewManual(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	genesis, err := cell.New(cell.Header{
		GraphID:    "graph-1",
		Type:       cell.TypeGenesis,
		SystemTime: f.clk.Now(),
		PrevHash:   cell.NullHash,
	}, cell.Fact{
		Namespace:     "system",
		Subject:       "graph-1",
		Predicate:     "created",
		Object:        canonical.Bool(true),
		Confidence:    1.0,
		SourceQuality: cell.QualityVerified,
		ValidFrom:     f.clk.Now(),
	}, cell.Anchor{})
	require.NoError(t, err)
	require.NoError(t, f.ch.Append(genesis))
	return f
}

func (f *ledgerFixture) append(ct cell.Type, ns, subject, predicate string, object canonical.Value, confidence float64, quality cell.SourceQuality, validFrom time.Time, validTo *time.Time) *cell.Cell {
	f.t.Helper()
	f.clk.Advance(time.Millisecond)
	c, err := cell.New(cell.Header{
		GraphID:    "graph-1",
		Type:       ct,
		SystemTime: f.clk.Now(),
		PrevHash:   f.ch.Head().ID,
	}, cell.Fact{
		Namespace:     ns,
		Subject:       subject,
		Predicate:     predicate,
		Object:        object,
		Confidence:    confidence,
		SourceQuality: quality,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
	}, cell.Anchor{})
	require.NoError(f.t, err)
	require.NoError(f.t, f.ch.Append(c))
	return c
}

func (f *ledgerFixture) fact(ns, subject, predicate, object string, confidence float64, quality cell.SourceQuality) *cell.Cell {
	return f.append(cell.TypeFact, ns, subject, predicate, canonical.String(object), confidence, quality,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
}

func (f *ledgerFixture) bridge(source, target string, validFrom time.Time, validTo *time.Time) *cell.Cell {
	return f.append(cell.TypeBridgeRule, source, source, "bridges_to",
		canonical.Structured(NewBridgeFact(target, "sig-src", "sig-tgt")),
		1.0, cell.QualityVerified, validFrom, validTo)
}

func (f *ledgerFixture) revoke(bridgeCellID string) *cell.Cell {
	return f.append(cell.TypeOverride, "system", "bridge", "revokes",
		canonical.String(bridgeCellID), 1.0, cell.QualityVerified,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
}

func queryAt(requesterNS, targetNS string, atValid, asOf time.Time) QueryRequest {
	return QueryRequest{
		RequesterID:        "auditor-1",
		RequesterNamespace: requesterNS,
		Namespace:          targetNS,
		AtValidTime:        atValid,
		AsOfSystemTime:     asOf,
	}
}

func TestSameNamespaceQuery(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)

	res := New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	require.True(t, res.Allowed)
	assert.Equal(t, BasisSameNamespace, res.AuthorizationBasis)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, canonical.String("open"), res.Facts[0].Object)
}

func TestStructuredObjectSurvivesResolution(t *testing.T) {
	f := newLedger(t)
	object := canonical.Structured(map[string]interface{}{
		"code":   "EX-COMM",
		"amount": 1200.50,
	})
	f.append(cell.TypeEvidence, "claims.auto", "claim-1", "assessment", object,
		0.9, cell.QualityVerified, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	res := New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	require.True(t, res.Allowed)
	require.Len(t, res.Facts, 1)
	got := res.Facts[0].Object
	assert.Equal(t, canonical.KindStructured, got.Kind)
	assert.Equal(t, object, got)
	require.NotNil(t, res.Bundle)
	assert.Equal(t, object, res.Bundle.Results[0].Object)
}

func TestParentAndChildAccess(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	now := f.clk.Now()
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	res := New(f.ch).QueryFacts(queryAt("claims", "claims.auto", at, now))
	assert.True(t, res.Allowed)
	assert.Equal(t, BasisParentNamespace, res.AuthorizationBasis)

	res = New(f.ch).QueryFacts(queryAt("claims.auto.glass", "claims.auto", at, now))
	assert.True(t, res.Allowed)
	assert.Equal(t, BasisChildNamespace, res.AuthorizationBasis)
}

func TestDeniedWithoutBridge(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)

	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	assert.False(t, res.Allowed)
	assert.Equal(t, BasisDenied, res.AuthorizationBasis)
	assert.Equal(t, "no_access", res.DenialReason)
	assert.Empty(t, res.Facts)
	require.NotNil(t, res.Bundle)
}

func TestBridgeGrantsAccess(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	b := f.bridge("fraud.analytics", "claims.auto", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	require.True(t, res.Allowed)
	assert.Equal(t, BasisBridge, res.AuthorizationBasis)
	assert.Equal(t, []string{b.ID}, res.BridgesUsed)
	require.Len(t, res.Facts, 1)
}

func TestBridgeNotYetKnown(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	horizonBeforeBridge := f.clk.Now()
	f.bridge("fraud.analytics", "claims.auto", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Query with a system-time horizon before the bridge was recorded:
	// claiming knowledge of a bridge before it existed is a time-travel attack.
	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto", at, horizonBeforeBridge))
	assert.False(t, res.Allowed)
	assert.Equal(t, "not_yet_known", res.DenialReason)

	// The same query at the recording horizon succeeds.
	res = New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto", at, f.clk.Now()))
	assert.True(t, res.Allowed)
}

func TestBridgeExpired(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	f.bridge("fraud.analytics", "claims.auto", from, &to)
	now := f.clk.Now()

	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto", from.Add(time.Hour), now))
	assert.True(t, res.Allowed)

	// valid_to is exclusive.
	res = New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto", to, now))
	assert.False(t, res.Allowed)
	assert.Equal(t, "expired", res.DenialReason)
}

func TestBridgeRevoked(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	b := f.bridge("fraud.analytics", "claims.auto", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	f.revoke(b.ID)

	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	assert.False(t, res.Allowed)
	assert.Equal(t, "revoked", res.DenialReason)
}

func TestConflictResolutionChain(t *testing.T) {
	f := newLedger(t)
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Source quality dominates confidence.
	f.fact("claims.auto", "claim-1", "status", "self-said", 0.99, cell.QualitySelfReported)
	verified := f.fact("claims.auto", "claim-1", "status", "verified-said", 0.6, cell.QualityVerified)

	res := New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", at, f.clk.Now()))
	require.Len(t, res.Facts, 1)
	assert.Equal(t, verified.ID, res.Facts[0].CellID)
	assert.Equal(t, ReasonSourceQuality, res.Facts[0].ResolutionReason)
	assert.Len(t, res.Facts[0].Candidates, 2)
}

func TestConflictResolutionConfidenceThenSystemTime(t *testing.T) {
	f := newLedger(t)
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	f.fact("claims.auto", "claim-1", "amount", "1000", 0.7, cell.QualitySelfReported)
	higher := f.fact("claims.auto", "claim-1", "amount", "1200", 0.9, cell.QualitySelfReported)

	res := New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", at, f.clk.Now()))
	require.Len(t, res.Facts, 1)
	assert.Equal(t, higher.ID, res.Facts[0].CellID)
	assert.Equal(t, ReasonConfidence, res.Facts[0].ResolutionReason)

	// Equal quality and confidence: later system_time wins.
	later := f.fact("claims.auto", "claim-1", "amount", "1300", 0.9, cell.QualitySelfReported)
	res = New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", at, f.clk.Now()))
	require.Len(t, res.Facts, 1)
	assert.Equal(t, later.ID, res.Facts[0].CellID)
	assert.Equal(t, ReasonSystemTime, res.Facts[0].ResolutionReason)
}

func TestBitemporalWindowFiltering(t *testing.T) {
	f := newLedger(t)
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	f.append(cell.TypeFact, "claims.auto", "claim-1", "status", canonical.String("open"),
		0.9, cell.QualitySelfReported, validFrom, &validTo)

	now := f.clk.Now()

	// Inside the validity window.
	res := New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", validFrom.Add(time.Hour), now))
	assert.Len(t, res.Facts, 1)

	// After valid_to: the fact no longer holds.
	res = New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", validTo, now))
	assert.Empty(t, res.Facts)

	// System-time horizon before the fact was recorded: not yet known.
	res = New(f.ch).QueryFacts(queryAt("claims.auto", "claims.auto", validFrom.Add(time.Hour),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, res.Facts)
}

func TestQueryDeterminism(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.7, cell.QualitySelfReported)
	f.fact("claims.auto", "claim-1", "status", "pending", 0.7, cell.QualitySelfReported)
	f.fact("claims.auto", "claim-2", "status", "closed", 0.9, cell.QualityVerified)

	req := queryAt("claims.auto", "claims.auto", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now())

	first, err := New(f.ch).QueryFacts(req).Bundle.Canonical()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := New(f.ch).QueryFacts(req).Bundle.Canonical()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again), "run %d not byte-identical", i)
	}
}

func TestProofBundleContents(t *testing.T) {
	f := newLedger(t)
	f.fact("claims.auto", "claim-1", "status", "open", 0.9, cell.QualitySelfReported)
	b := f.bridge("fraud.analytics", "claims.auto", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	res := New(f.ch).QueryFacts(queryAt("fraud.analytics", "claims.auto",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), f.clk.Now()))

	bundle := res.Bundle
	require.NotNil(t, bundle)
	assert.Equal(t, Version, bundle.ScholarVersion)
	assert.Equal(t, BasisBridge, bundle.AuthorizationBasis)
	assert.Equal(t, []string{b.ID}, bundle.Proof.BridgesUsed)
	require.Len(t, bundle.Proof.BridgeEffectiveness, 1)
	assert.True(t, bundle.Proof.BridgeEffectiveness[0].Effective)
	assert.NotEmpty(t, bundle.Proof.CandidatesConsidered)
}
