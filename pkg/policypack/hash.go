package policypack

import (
	"fmt"
	"sort"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// Hash computes the provenance anchor of a pack: a SHA-256 over a
// canonical representation that is invariant to list ordering but
// sensitive to any wording, id, version, or jurisdiction change.
//
// Construction: each list element is canonically hashed on its own, the
// per-list hash sets are sorted, and the final digest covers the meta
// plus the sorted hash lists. Two packs with the same elements in
// different insertion orders therefore hash identically.
func Hash(p *Pack) (string, error) {
	coverages, err := elementHashes(p.Coverages)
	if err != nil {
		return "", err
	}
	exclusions, err := elementHashes(p.Exclusions)
	if err != nil {
		return "", err
	}
	evidence, err := elementHashes(p.EvidenceRules)
	if err != nil {
		return "", err
	}
	timelines, err := elementHashes(p.TimelineRules)
	if err != nil {
		return "", err
	}
	authority, err := elementHashes(p.AuthorityRules)
	if err != nil {
		return "", err
	}

	return canonical.Hash(map[string]interface{}{
		"meta":            p.Meta,
		"coverages":       coverages,
		"exclusions":      exclusions,
		"evidence_rules":  evidence,
		"timeline_rules":  timelines,
		"authority_rules": authority,
	})
}

func elementHashes[T any](items []T) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		h, err := canonical.Hash(item)
		if err != nil {
			return nil, fmt.Errorf("policypack: hashing element %d failed: %w", i, err)
		}
		out = append(out, h)
	}
	sort.Strings(out)
	return out, nil
}
