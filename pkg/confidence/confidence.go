// Package confidence implements the governed-confidence verdict: four
// independently scored dimensions, aggregated by minimum and capped by
// named hard rules, so a large pool of weak or inconsistent precedents
// can never inflate the reported confidence.
package confidence

import (
	"sort"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/domain"
	"github.com/adjudilane/verdict/pkg/precedent"
)

// Level is the ordered confidence scale.
type Level int

const (
	None Level = iota
	Low
	Moderate
	High
	VeryHigh
)

func (l Level) String() string {
	switch l {
	case None:
		return "NONE"
	case Low:
		return "LOW"
	case Moderate:
		return "MODERATE"
	case High:
		return "HIGH"
	case VeryHigh:
		return "VERY_HIGH"
	}
	return "NONE"
}

// MarshalText makes levels render as their names in JSON reports.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func minLevel(a, b Level) Level {
	if a < b {
		return a
	}
	return b
}

// Dimension names, used for the bottleneck report.
const (
	DimPoolAdequacy         = "pool_adequacy"
	DimSimilarityQuality    = "similarity_quality"
	DimOutcomeConsistency   = "outcome_consistency"
	DimEvidenceCompleteness = "evidence_completeness"
)

// Hard rule names. Every cap the verdict applies is traceable by name.
const (
	RuleZeroPool             = "zero_pool"
	RuleAllBelowFloor        = "all_below_similarity_floor"
	RuleMissingCriticalField = "missing_critical_field"
	RuleZeroDecisive         = "zero_decisive_precedents"
	RuleBelowDomainMinimum   = "below_domain_minimum_pool"
)

// Thresholds carries the calibration constants. These are policy, subject
// to governance review; Default returns the enacted values.
type Thresholds struct {
	PoolModerate int // pool size for MODERATE
	PoolHigh     int
	PoolVeryHigh int

	SimilarityLow      float64 // below this mean similarity: LOW
	SimilarityModerate float64
	SimilarityHigh     float64

	SimilarityFloor float64 // per-precedent floor for the hard rule

	ConsistencyLow      float64 // agreement fraction bands
	ConsistencyModerate float64
	ConsistencyHigh     float64

	CompletenessLow      float64
	CompletenessModerate float64
	CompletenessHigh     float64
}

// Default returns the enacted calibration.
func Default() Thresholds {
	return Thresholds{
		PoolModerate: 5,
		PoolHigh:     15,
		PoolVeryHigh: 50,

		SimilarityLow:      0.5,
		SimilarityModerate: 0.7,
		SimilarityHigh:     0.85,

		SimilarityFloor: 0.5,

		ConsistencyLow:      0.6,
		ConsistencyModerate: 0.75,
		ConsistencyHigh:     0.9,

		CompletenessLow:      0.5,
		CompletenessModerate: 0.7,
		CompletenessHigh:     0.9,
	}
}

// ScoredPrecedent pairs a seed's disposition with its similarity score,
// the minimal input the aggregation needs.
type ScoredPrecedent struct {
	Disposition precedent.Disposition `json:"disposition"`
	Similarity  float64               `json:"similarity"`
}

// Input is everything Compute needs. CaseFacts and Registry feed evidence
// completeness; the pool feeds the other three dimensions.
type Input struct {
	Pool      []ScoredPrecedent
	CaseFacts map[string]canonical.Value
	Registry  *domain.Registry
}

// Dimensions holds the four independent scores.
type Dimensions struct {
	PoolAdequacy         Level `json:"pool_adequacy"`
	SimilarityQuality    Level `json:"similarity_quality"`
	OutcomeConsistency   Level `json:"outcome_consistency"`
	EvidenceCompleteness Level `json:"evidence_completeness"`
}

// Verdict is the aggregated result. Overall is the minimum of the four
// dimensions, further capped by any hard rules that fired; Bottleneck
// names the weakest dimension, and HardRules lists every cap by name so
// the reported confidence is always traceable.
type Verdict struct {
	Overall         Level      `json:"overall"`
	Dims            Dimensions `json:"dimensions"`
	Bottleneck      string     `json:"bottleneck"`
	HardRules       []string   `json:"hard_rules"`
	MeanSimilarity  float64    `json:"mean_similarity"`
	DecisiveCount   int        `json:"decisive_count"`
	AgreementShare  float64    `json:"agreement_share"`
	MissingCritical []string   `json:"missing_critical,omitempty"`
}

// Compute derives the governed confidence verdict. There is no code path
// that returns a fixed default without going through this computation.
func Compute(in Input) Verdict {
	return ComputeWith(Default(), in)
}

// ComputeWith is Compute with explicit calibration.
func ComputeWith(th Thresholds, in Input) Verdict {
	v := Verdict{HardRules: []string{}}

	v.Dims.PoolAdequacy = poolAdequacy(th, len(in.Pool))
	v.MeanSimilarity = meanSimilarity(in.Pool)
	v.Dims.SimilarityQuality = similarityQuality(th, len(in.Pool), v.MeanSimilarity)
	v.Dims.OutcomeConsistency, v.DecisiveCount, v.AgreementShare = outcomeConsistency(th, in.Pool)
	v.Dims.EvidenceCompleteness, v.MissingCritical = evidenceCompleteness(th, in.Registry, in.CaseFacts)

	v.Overall, v.Bottleneck = minOfFour(v.Dims)

	// Hard rules: explicit ceilings independent of the computed dimensions.
	if len(in.Pool) == 0 {
		v.cap(None, RuleZeroPool)
	}
	if len(in.Pool) > 0 && allBelow(in.Pool, th.SimilarityFloor) {
		v.cap(Low, RuleAllBelowFloor)
	}
	if len(v.MissingCritical) > 0 {
		v.cap(Low, RuleMissingCriticalField)
	}
	if len(in.Pool) > 0 && v.DecisiveCount == 0 {
		v.cap(Moderate, RuleZeroDecisive)
	}
	if in.Registry != nil && len(in.Pool) > 0 && len(in.Pool) < in.Registry.MinPoolSize {
		v.cap(Low, RuleBelowDomainMinimum)
	}

	return v
}

func (v *Verdict) cap(ceiling Level, rule string) {
	if v.Overall > ceiling {
		v.Overall = ceiling
		v.Bottleneck = rule
	}
	v.HardRules = append(v.HardRules, rule)
}

func minOfFour(d Dimensions) (Level, string) {
	type dim struct {
		name  string
		level Level
	}
	dims := []dim{
		{DimPoolAdequacy, d.PoolAdequacy},
		{DimSimilarityQuality, d.SimilarityQuality},
		{DimOutcomeConsistency, d.OutcomeConsistency},
		{DimEvidenceCompleteness, d.EvidenceCompleteness},
	}
	overall := VeryHigh
	bottleneck := dims[0].name
	for _, x := range dims {
		if x.level < overall {
			overall = x.level
			bottleneck = x.name
		}
	}
	return overall, bottleneck
}

func poolAdequacy(th Thresholds, size int) Level {
	switch {
	case size == 0:
		return None
	case size < th.PoolModerate:
		return Low
	case size < th.PoolHigh:
		return Moderate
	case size < th.PoolVeryHigh:
		return High
	default:
		return VeryHigh
	}
}

func meanSimilarity(pool []ScoredPrecedent) float64 {
	if len(pool) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range pool {
		total += p.Similarity
	}
	return total / float64(len(pool))
}

func similarityQuality(th Thresholds, size int, mean float64) Level {
	switch {
	case size == 0:
		return None
	case mean < th.SimilarityLow:
		return Low
	case mean < th.SimilarityModerate:
		return Moderate
	case mean < th.SimilarityHigh:
		return High
	default:
		return VeryHigh
	}
}

// outcomeConsistency measures the fraction of decisive (terminal,
// non-pending) precedents agreeing with the dominant terminal outcome.
// Zero decisive precedents is a special case capped at MODERATE: there is
// no evidence to be confident or inconsistent about.
func outcomeConsistency(th Thresholds, pool []ScoredPrecedent) (Level, int, float64) {
	counts := map[precedent.Disposition]int{}
	decisive := 0
	for _, p := range pool {
		if p.Disposition.Terminal() {
			decisive++
			counts[p.Disposition]++
		}
	}
	if decisive == 0 {
		return Moderate, 0, 0
	}

	dominant := 0
	keys := make([]precedent.Disposition, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		if counts[k] > dominant {
			dominant = counts[k]
		}
	}

	share := float64(dominant) / float64(decisive)
	switch {
	case share < th.ConsistencyLow:
		return Low, decisive, share
	case share < th.ConsistencyModerate:
		return Moderate, decisive, share
	case share < th.ConsistencyHigh:
		return High, decisive, share
	default:
		return VeryHigh, decisive, share
	}
}

// evidenceCompleteness measures the fraction of declared fields present
// with non-null values. Any missing critical field caps the dimension at
// LOW regardless of the overall percentage.
func evidenceCompleteness(th Thresholds, reg *domain.Registry, facts map[string]canonical.Value) (Level, []string) {
	if reg == nil || len(reg.Fields) == 0 {
		return None, nil
	}
	present := 0
	var missingCritical []string
	for _, id := range reg.FieldIDs() {
		v, ok := facts[id]
		if ok && !v.IsZero() {
			present++
			continue
		}
		if f, _ := reg.Field(id); f.Critical {
			missingCritical = append(missingCritical, id)
		}
	}
	share := float64(present) / float64(len(reg.Fields))

	var level Level
	switch {
	case share < th.CompletenessLow:
		level = Low
	case share < th.CompletenessModerate:
		level = Moderate
	case share < th.CompletenessHigh:
		level = High
	default:
		level = VeryHigh
	}
	if len(missingCritical) > 0 && level > Low {
		level = Low
	}
	return level, missingCritical
}

func allBelow(pool []ScoredPrecedent, floor float64) bool {
	for _, p := range pool {
		if p.Similarity >= floor {
			return false
		}
	}
	return true
}
