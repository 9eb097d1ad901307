package scholar

import (
	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/namespace"
)

// ProofBundle is the canonical, byte-stable record of how a query was
// answered: the parameters, the candidates considered, the bridges used
// (by cell id) with their effectiveness verdicts, the authorization basis,
// and the resolution reason per winner. External tools re-derive and
// verify it independently.
type ProofBundle struct {
	Query              QueryRequest              `json:"query"`
	Results            []ResolvedFact            `json:"results"`
	Proof              ProofDetail               `json:"proof"`
	AuthorizationBasis string                    `json:"authorization_basis"`
	ScholarVersion     string                    `json:"scholar_version"`
}

// ProofDetail holds the evidence trail behind the results.
type ProofDetail struct {
	CandidatesConsidered []string                  `json:"candidates_considered"`
	BridgesUsed          []string                  `json:"bridges_used"`
	BridgeEffectiveness  []namespace.Effectiveness `json:"bridge_effectiveness"`
	DenialReason         string                    `json:"denial_reason,omitempty"`
}

func buildBundle(req QueryRequest, result *QueryResult) *ProofBundle {
	candidates := []string{}
	for _, f := range result.Facts {
		candidates = append(candidates, f.Candidates...)
	}
	verdicts := result.BridgeVerdicts
	if verdicts == nil {
		verdicts = []namespace.Effectiveness{}
	}
	used := result.BridgesUsed
	if used == nil {
		used = []string{}
	}
	return &ProofBundle{
		Query:              req,
		Results:            result.Facts,
		AuthorizationBasis: result.AuthorizationBasis,
		ScholarVersion:     Version,
		Proof: ProofDetail{
			CandidatesConsidered: candidates,
			BridgesUsed:          used,
			BridgeEffectiveness:  verdicts,
			DenialReason:         result.DenialReason,
		},
	}
}

// Canonical returns the RFC 8785 canonical JSON encoding of the bundle.
// Re-deriving it from the same chain state always yields identical bytes.
func (p *ProofBundle) Canonical() ([]byte, error) {
	return canonical.JCS(p)
}
