package engine

import (
	"fmt"
	"strings"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/cell"
	"github.com/adjudilane/verdict/pkg/chain"
	"github.com/adjudilane/verdict/pkg/clock"
)

// decisionNamespace holds recorded adjudication outcomes.
const decisionNamespace = "decisions.engine"

// RecordDecision appends a verdict cell and a justification cell for a
// decision to the chain. The verdict cell asserts the outcome; the
// justification cell carries the triggered exclusions and obligations.
// Both anchor the pack hash as rule provenance.
func RecordDecision(ch *chain.Chain, clk clock.Clock, d *Decision) ([]*cell.Cell, error) {
	if ch.Head() == nil {
		return nil, fmt.Errorf("engine: chain has no genesis")
	}

	anchor := cell.Anchor{
		RuleID:        "pack:" + d.PolicyHash,
		RuleLogicHash: d.PolicyHash,
	}

	now := clk.Now()
	verdictCell, err := cell.New(cell.Header{
		GraphID:    ch.GraphID(),
		Type:       cell.TypeVerdict,
		SystemTime: now,
		PrevHash:   ch.Head().ID,
	}, cell.Fact{
		Namespace:     decisionNamespace,
		Subject:       d.DecisionID,
		Predicate:     "verdict",
		Object:        canonical.String(string(d.Verdict)),
		Confidence:    1.0,
		SourceQuality: cell.QualityVerified,
		ValidFrom:     now,
	}, anchor)
	if err != nil {
		return nil, err
	}
	if err := ch.Append(verdictCell); err != nil {
		return nil, err
	}

	justification := map[string]interface{}{
		"engine_version":     d.EngineVersion,
		"input_hash":         d.InputHash,
		"required_approvals": strings.Join(d.RequiredApprovals, ","),
		"required_evidence":  strings.Join(d.RequiredEvidence, ","),
	}
	codes := make([]string, 0, len(d.TriggeredExclusions))
	for _, e := range d.TriggeredExclusions {
		codes = append(codes, e.Code)
	}
	justification["exclusion_codes"] = strings.Join(codes, ",")

	justCell, err := cell.New(cell.Header{
		GraphID:    ch.GraphID(),
		Type:       cell.TypeJustification,
		SystemTime: clk.Now(),
		PrevHash:   verdictCell.ID,
	}, cell.Fact{
		Namespace:     decisionNamespace,
		Subject:       d.DecisionID,
		Predicate:     "justified_by",
		Object:        canonical.Structured(justification),
		Confidence:    1.0,
		SourceQuality: cell.QualityVerified,
		ValidFrom:     now,
	}, anchor)
	if err != nil {
		return nil, err
	}
	if err := ch.Append(justCell); err != nil {
		return nil, err
	}

	return []*cell.Cell{verdictCell, justCell}, nil
}
