// Package scholar implements the deterministic fact-query and conflict
// resolution engine over a chain. Given the same chain state and query
// parameters it returns the identical winning facts, resolution reasons,
// and proof bundle every time. That is the auditability guarantee.
package scholar

import (
	"sort"
	"time"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
	"github.com/adjudilane/verdict/pkg/chain"
	"github.com/adjudilane/verdict/pkg/namespace"
)

// Version is cited in every proof bundle so a verifier knows which
// resolution semantics produced it.
const Version = "scholar/1.0.0"

// Authorization basis codes.
const (
	BasisSameNamespace   = "same_namespace"
	BasisParentNamespace = "parent_namespace"
	BasisChildNamespace  = "child_namespace"
	BasisBridge          = "bridge"
	BasisDenied          = "no_access"
)

// Resolution reason codes, in tie-break order.
const (
	ReasonSingleCandidate = "single_candidate"
	ReasonSourceQuality   = "source_quality"
	ReasonConfidence      = "confidence"
	ReasonSystemTime      = "system_time"
	ReasonCellID          = "cell_id"
)

// QueryRequest is the full coordinate set of a bitemporal fact query.
type QueryRequest struct {
	RequesterID        string    `json:"requester_id"`
	RequesterNamespace string    `json:"requester_namespace"`
	Namespace          string    `json:"namespace"`
	Subject            string    `json:"subject,omitempty"`
	Predicate          string    `json:"predicate,omitempty"`
	AtValidTime        time.Time `json:"at_valid_time"`
	AsOfSystemTime     time.Time `json:"as_of_system_time"`
}

// ResolvedFact is one winning fact plus the reason it beat its rivals.
// Object carries the tagged value form so structured objects survive the
// round trip into the proof bundle without loss.
type ResolvedFact struct {
	CellID           string          `json:"cell_id"`
	Subject          string          `json:"subject"`
	Predicate        string          `json:"predicate"`
	Object           canonical.Value `json:"object"`
	Confidence       float64         `json:"confidence"`
	SourceQuality    string          `json:"source_quality"`
	ResolutionReason string          `json:"resolution_reason"`
	Candidates       []string        `json:"candidates"`
}

// QueryResult is always well-formed: a denied query reports Allowed=false
// with a reason code, it never errors.
type QueryResult struct {
	Allowed            bool                      `json:"allowed"`
	AuthorizationBasis string                    `json:"authorization_basis"`
	DenialReason       string                    `json:"denial_reason,omitempty"`
	Facts              []ResolvedFact            `json:"facts"`
	BridgesUsed        []string                  `json:"bridges_used"`
	BridgeVerdicts     []namespace.Effectiveness `json:"bridge_verdicts"`
	Bundle             *ProofBundle              `json:"proof_bundle"`
}

// Scholar answers bitemporal fact queries over one chain.
type Scholar struct {
	chain *chain.Chain
}

// New creates a scholar over the given chain.
func New(ch *chain.Chain) *Scholar {
	return &Scholar{chain: ch}
}

// QueryFacts authorizes, collects, and deterministically resolves facts at
// the requested bitemporal coordinates.
func (s *Scholar) QueryFacts(req QueryRequest) *QueryResult {
	result := &QueryResult{
		Facts:          []ResolvedFact{},
		BridgesUsed:    []string{},
		BridgeVerdicts: []namespace.Effectiveness{},
	}

	basis, usedBridges, verdicts := s.authorize(req)
	result.AuthorizationBasis = basis
	result.BridgeVerdicts = verdicts
	result.BridgesUsed = usedBridges

	if basis == BasisDenied {
		result.DenialReason = s.denialReason(verdicts)
		result.Bundle = buildBundle(req, result)
		return result
	}
	result.Allowed = true

	groups := s.collectCandidates(req)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		result.Facts = append(result.Facts, resolve(groups[k]))
	}

	result.Bundle = buildBundle(req, result)
	return result
}

// authorize determines the access basis. Same-namespace, parent-of-target,
// and child-of-target access are structural; everything else needs an
// effective bridge, direct or granted at a parent namespace.
func (s *Scholar) authorize(req QueryRequest) (string, []string, []namespace.Effectiveness) {
	switch {
	case req.RequesterNamespace == req.Namespace:
		return BasisSameNamespace, nil, nil
	case namespace.IsParentOf(req.RequesterNamespace, req.Namespace):
		return BasisParentNamespace, nil, nil
	case namespace.IsChildOf(req.RequesterNamespace, req.Namespace):
		return BasisChildNamespace, nil, nil
	}

	var used []string
	var verdicts []namespace.Effectiveness
	basis := BasisDenied

	bridges := collectBridges(s.chain, req)
	sort.Slice(bridges, func(i, j int) bool { return bridges[i].CellID < bridges[j].CellID })

	for _, b := range bridges {
		// A bridge granted at a parent of the requester's namespace covers
		// the requester; likewise a parent-scoped target covers children.
		if !namespace.Contains(b.Source, req.RequesterNamespace) || !namespace.Contains(b.Target, req.Namespace) {
			continue
		}
		eff := b.IsEffective(req.AtValidTime, req.AsOfSystemTime)
		verdicts = append(verdicts, eff)
		if eff.Effective {
			used = append(used, b.CellID)
			basis = BasisBridge
		}
	}
	return basis, used, verdicts
}

// denialReason picks the most specific reason available: if bridges were
// considered, report the first bridge's failure; otherwise no_access.
func (s *Scholar) denialReason(verdicts []namespace.Effectiveness) string {
	if len(verdicts) == 0 {
		return BasisDenied
	}
	return string(verdicts[0].Reason)
}

// collectCandidates gathers fact-bearing cells inside the bitemporal
// window, grouped by subject+predicate.
func (s *Scholar) collectCandidates(req QueryRequest) map[string][]*cell.Cell {
	groups := make(map[string][]*cell.Cell)
	for _, c := range s.chain.Cells() {
		if !factBearing(c.Header.Type) {
			continue
		}
		if c.Fact.Namespace != req.Namespace {
			continue
		}
		if req.Subject != "" && c.Fact.Subject != req.Subject {
			continue
		}
		if req.Predicate != "" && c.Fact.Predicate != req.Predicate {
			continue
		}
		if c.Header.SystemTime.After(req.AsOfSystemTime) {
			continue
		}
		if !c.ValidAt(req.AtValidTime) {
			continue
		}
		key := c.Fact.Subject + "\x00" + c.Fact.Predicate
		groups[key] = append(groups[key], c)
	}
	return groups
}

// factBearing reports whether a cell type participates in fact queries.
// Structural cells (genesis, namespace defs, access and bridge rules,
// overrides, policy heads) are consulted for authorization, not returned
// as facts.
func factBearing(t cell.Type) bool {
	switch t {
	case cell.TypeFact, cell.TypeDecision, cell.TypeEvidence, cell.TypeSignal,
		cell.TypeMitigation, cell.TypeScore, cell.TypeVerdict, cell.TypeJustification:
		return true
	}
	return false
}

// resolve picks the deterministic winner among conflicting candidates.
// The tie-break chain is strict and ordered: higher source quality, then
// higher confidence, then later system_time, then lexicographically
// smaller cell_id. The reason recorded is the first link that decided.
func resolve(candidates []*cell.Cell) ResolvedFact {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	sort.Strings(ids)

	winner := candidates[0]
	reason := ReasonSingleCandidate
	for _, c := range candidates[1:] {
		w, r := better(c, winner)
		if w {
			winner = c
			reason = r
		} else if reason == ReasonSingleCandidate {
			reason = r
		}
	}

	return ResolvedFact{
		CellID:           winner.ID,
		Subject:          winner.Fact.Subject,
		Predicate:        winner.Fact.Predicate,
		Object:           winner.Fact.Object,
		Confidence:       winner.Fact.Confidence,
		SourceQuality:    string(winner.Fact.SourceQuality),
		ResolutionReason: reason,
		Candidates:       ids,
	}
}

// better reports whether a beats b, and which tie-break link decided.
func better(a, b *cell.Cell) (bool, string) {
	if ar, br := a.Fact.SourceQuality.Rank(), b.Fact.SourceQuality.Rank(); ar != br {
		return ar > br, ReasonSourceQuality
	}
	if a.Fact.Confidence != b.Fact.Confidence {
		return a.Fact.Confidence > b.Fact.Confidence, ReasonConfidence
	}
	if !a.Header.SystemTime.Equal(b.Header.SystemTime) {
		return a.Header.SystemTime.After(b.Header.SystemTime), ReasonSystemTime
	}
	return a.ID < b.ID, ReasonCellID
}
