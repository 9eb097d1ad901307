package simulate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/confidence"
	"github.com/adjudilane/verdict/pkg/domain"
	"github.com/adjudilane/verdict/pkg/precedent"
)

// filingSurgeThreshold is the absolute increase in mandatory filings
// above which a volume warning fires.
const filingSurgeThreshold = 10

// segmentConcentrationShare flags impact concentrated on one segment.
const segmentConcentrationShare = 0.80

// Simulator runs draft shifts against a frozen precedent pool. All runs
// are pure functions of (pool, registry, signals, enacted, draft); the
// simulator holds no mutable run state.
type Simulator struct {
	pool       []*precedent.Seed
	registry   *domain.Registry
	signals    *SignalSet
	enacted    map[string]EnactedShift
	thresholds confidence.Thresholds
}

// NewSimulator builds a simulator over a pool. The pool slice is treated
// as frozen; its order fixes all tie-breaking in the outputs.
func NewSimulator(pool []*precedent.Seed, reg *domain.Registry, signals *SignalSet) *Simulator {
	return &Simulator{
		pool:       pool,
		registry:   reg,
		signals:    signals,
		enacted:    make(map[string]EnactedShift),
		thresholds: confidence.Default(),
	}
}

// WithThresholds overrides the governed-confidence calibration used in
// cascade analysis.
func (s *Simulator) WithThresholds(th confidence.Thresholds) *Simulator {
	s.thresholds = th
	return s
}

// RegisterEnacted puts an enacted shift's shadow-outcome function on
// record, keyed by parameter.
func (s *Simulator) RegisterEnacted(e EnactedShift) {
	s.enacted[e.Parameter] = e
}

// Simulate runs the full seven-step analysis for one draft.
func (s *Simulator) Simulate(draft DraftShift) (*Report, error) {
	if s.signals == nil {
		return nil, fmt.Errorf("simulate: no signal set configured")
	}

	r := &Report{
		DraftID:  draft.ID,
		PoolSize: len(s.pool),
		Warnings: []string{},
	}

	// Step 1: match precedents whose extracted signals intersect the
	// draft's trigger signals.
	want := make(map[string]bool, len(draft.TriggerSignals))
	for _, sig := range draft.TriggerSignals {
		want[sig] = true
	}
	var matched []*precedent.Seed
	for _, seed := range s.pool {
		for _, sig := range s.signals.Extract(seed.Facts) {
			if want[sig] {
				matched = append(matched, seed)
				break
			}
		}
	}
	r.Matched = len(matched)

	// Steps 2 and 3: simulated outcome and escalation direction per case.
	outcome := s.outcomeFn(draft)
	for _, seed := range matched {
		after, afterReporting := outcome(seed)
		r.Cases = append(r.Cases, CaseImpact{
			SeedID:          seed.ID,
			Typology:        seed.Typology,
			Segment:         seed.Segment,
			Before:          seed.Disposition,
			After:           after,
			BeforeReporting: seed.Reporting,
			AfterReporting:  afterReporting,
			Direction:       direction(seed.Disposition, after),
		})
	}

	// Step 4: aggregation.
	r.Aggregate = aggregate(r.Cases)
	r.Aggregate.Unaffected = len(s.pool) - r.Aggregate.Affected

	// Step 5: cascade impact per typology.
	r.Cascades = s.cascades(matched, r.Cases)

	// Step 6: unintended-consequence warnings.
	r.Warnings = s.warnings(r)

	// Step 7: magnitude.
	r.Magnitude = magnitude(r)

	r.ReportID = reportID(draft, r)
	return r, nil
}

// Compare runs each draft independently. No state is shared between
// runs; the reports come back in draft order.
func (s *Simulator) Compare(drafts []DraftShift) ([]*Report, error) {
	out := make([]*Report, 0, len(drafts))
	for _, d := range drafts {
		r, err := s.Simulate(d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Enact produces the promotion record for an approved draft. It mutates
// nothing; persisting the record as a policy-shift cell is the caller's
// responsibility.
func (s *Simulator) Enact(draft DraftShift, report *Report) *EnactmentRecord {
	summary := make([]string, 0, len(report.Cascades))
	for _, c := range report.Cascades {
		line := fmt.Sprintf("%s: %s -> %s, confidence %s -> %s",
			c.Typology, c.BeforeDominant, c.AfterDominant, c.BeforeConfidence, c.AfterConfidence)
		if c.PostureReversal {
			line += " (posture reversal)"
		}
		summary = append(summary, line)
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("verdict:enactment:"+draft.ID+":"+report.ReportID))
	return &EnactmentRecord{
		RecordID:       id.String(),
		ShiftID:        draft.ID,
		Parameter:      draft.Parameter,
		OldValue:       draft.OldValue,
		NewValue:       draft.NewValue,
		Magnitude:      report.Magnitude,
		CascadeSummary: summary,
		WarningCount:   len(report.Warnings),
		MatchedCases:   report.Matched,
	}
}

// outcomeFn picks the simulated-outcome function for a draft: the
// recorded shadow function of a matching enacted shift when one exists,
// otherwise a heuristic keyed on the shape of the change.
func (s *Simulator) outcomeFn(draft DraftShift) ShadowOutcome {
	if e, ok := s.enacted[draft.Parameter]; ok && e.Shadow != nil {
		return e.Shadow
	}

	oldNum, oldIsNum := toNumber(draft.OldValue)
	newNum, newIsNum := toNumber(draft.NewValue)
	oldBool, oldIsBool := draft.OldValue.(bool)
	newBool, newIsBool := draft.NewValue.(bool)

	switch {
	case draft.OldValue == nil && draft.NewValue != nil:
		// New mandatory requirement where none existed: previously
		// allowed cases now need enhanced review.
		return func(seed *precedent.Seed) (precedent.Disposition, precedent.Reporting) {
			if seed.Disposition == precedent.DispositionAllow {
				return precedent.DispositionEDD, seed.Reporting
			}
			return seed.Disposition, seed.Reporting
		}
	case oldIsNum && newIsNum && newNum < oldNum:
		// Threshold tightened: everything moves one step up the
		// severity ladder; blocks gain a mandatory filing.
		return func(seed *precedent.Seed) (precedent.Disposition, precedent.Reporting) {
			switch seed.Disposition {
			case precedent.DispositionAllow:
				return precedent.DispositionEDD, seed.Reporting
			case precedent.DispositionEDD:
				return precedent.DispositionBlock, precedent.ReportingSTR
			default:
				return seed.Disposition, seed.Reporting
			}
		}
	case oldIsBool && newIsBool && !oldBool && newBool:
		// Zero-tolerance flip: every matching case blocks and files.
		return func(seed *precedent.Seed) (precedent.Disposition, precedent.Reporting) {
			return precedent.DispositionBlock, precedent.ReportingSTR
		}
	default:
		return func(seed *precedent.Seed) (precedent.Disposition, precedent.Reporting) {
			return seed.Disposition, seed.Reporting
		}
	}
}

func aggregate(cases []CaseImpact) Aggregate {
	agg := Aggregate{
		Transitions: map[string]int{},
		TierBefore:  map[string]int{},
		TierAfter:   map[string]int{},
	}
	for _, c := range cases {
		agg.TierBefore[tier(c.Before)]++
		agg.TierAfter[tier(c.After)]++
		if !c.Changed() {
			continue
		}
		agg.Affected++
		if c.Before != c.After {
			agg.Transitions[string(c.Before)+"->"+string(c.After)]++
		}
		if c.BeforeReporting != precedent.ReportingSTR && c.AfterReporting == precedent.ReportingSTR {
			agg.NewMandatoryFilings++
		}
	}
	return agg
}

func tier(d precedent.Disposition) string {
	switch d {
	case precedent.DispositionAllow:
		return "low"
	case precedent.DispositionEDD:
		return "elevated"
	case precedent.DispositionBlock:
		return "high"
	}
	return "unknown"
}

// cascades groups matched precedents by typology and computes the
// before/after disposition distribution and governed confidence for
// each, sorted by typology name.
func (s *Simulator) cascades(matched []*precedent.Seed, cases []CaseImpact) []CascadeImpact {
	after := make(map[string]precedent.Disposition, len(cases))
	for _, c := range cases {
		after[c.SeedID] = c.After
	}

	byTypology := map[string][]*precedent.Seed{}
	for _, seed := range matched {
		byTypology[seed.Typology] = append(byTypology[seed.Typology], seed)
	}
	names := make([]string, 0, len(byTypology))
	for name := range byTypology {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CascadeImpact, 0, len(names))
	for _, name := range names {
		members := byTypology[name]
		facts := unionFacts(members)

		beforeDist := map[precedent.Disposition]int{}
		afterDist := map[precedent.Disposition]int{}
		var beforePool, afterPool []confidence.ScoredPrecedent
		for _, seed := range members {
			sim := precedent.Score(s.registry, facts, seed).Score
			beforeDist[seed.Disposition]++
			afterDist[after[seed.ID]]++
			beforePool = append(beforePool, confidence.ScoredPrecedent{Disposition: seed.Disposition, Similarity: sim})
			afterPool = append(afterPool, confidence.ScoredPrecedent{Disposition: after[seed.ID], Similarity: sim})
		}

		beforeVerdict := confidence.ComputeWith(s.thresholds, confidence.Input{Pool: beforePool, CaseFacts: facts, Registry: s.registry})
		afterVerdict := confidence.ComputeWith(s.thresholds, confidence.Input{Pool: afterPool, CaseFacts: facts, Registry: s.registry})

		c := CascadeImpact{
			Typology:           name,
			BeforeDistribution: beforeDist,
			AfterDistribution:  afterDist,
			BeforeDominant:     dominant(beforeDist),
			AfterDominant:      dominant(afterDist),
			BeforeConfidence:   beforeVerdict.Overall,
			AfterConfidence:    afterVerdict.Overall,
		}
		c.PostureReversal = c.BeforeDominant != c.AfterDominant
		switch {
		case afterVerdict.Overall > beforeVerdict.Overall:
			c.ConfidenceTrend = TrendImproved
		case afterVerdict.Overall < beforeVerdict.Overall:
			c.ConfidenceTrend = TrendDegraded
		default:
			c.ConfidenceTrend = TrendUnchanged
		}
		out = append(out, c)
	}
	return out
}

// unionFacts builds the typology's representative fact set: for each
// field, the value from the first member (in pool order) that carries
// it. Deterministic given the frozen pool order.
func unionFacts(members []*precedent.Seed) map[string]canonical.Value {
	out := map[string]canonical.Value{}
	for _, seed := range members {
		keys := make([]string, 0, len(seed.Facts))
		for k := range seed.Facts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := out[k]; !ok {
				out[k] = seed.Facts[k]
			}
		}
	}
	return out
}

func dominant(dist map[precedent.Disposition]int) precedent.Disposition {
	best := precedent.DispositionUnknown
	bestCount := -1
	for _, d := range []precedent.Disposition{
		precedent.DispositionBlock,
		precedent.DispositionEDD,
		precedent.DispositionAllow,
		precedent.DispositionUnknown,
	} {
		if n := dist[d]; n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// warnings runs the independent unintended-consequence detectors. Each
// fires its own human-readable line; none are suppressed or merged.
func (s *Simulator) warnings(r *Report) []string {
	warnings := []string{}

	newlyBlocked := 0
	deEscalated := 0
	segments := map[string]int{}
	for _, c := range r.Cases {
		if c.Before == precedent.DispositionAllow && c.After == precedent.DispositionBlock {
			newlyBlocked++
		}
		if c.Direction == DirectionDown {
			deEscalated++
		}
		if c.Changed() && c.Segment != "" {
			segments[c.Segment]++
		}
	}

	if newlyBlocked > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d previously allowed cases would be blocked outright; review for legitimate low-risk activity caught in the net", newlyBlocked))
	}

	if r.Aggregate.Affected > 0 {
		names := make([]string, 0, len(segments))
		for name := range segments {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			share := float64(segments[name]) / float64(r.Aggregate.Affected)
			if share > segmentConcentrationShare {
				warnings = append(warnings, fmt.Sprintf(
					"impact is concentrated on segment %q (%.0f%% of affected cases)", name, share*100))
			}
		}
	}

	if r.Aggregate.NewMandatoryFilings > filingSurgeThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"mandatory filing volume would rise by %d cases", r.Aggregate.NewMandatoryFilings))
	}

	if deEscalated > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d cases would be de-escalated; potential under-reporting exposure", deEscalated))
	}

	// Precedents whose outcome the shift changes were decided under the
	// old rule and stop being comparable; a typology left with too few
	// unchanged precedents loses its adequacy floor.
	if s.registry != nil {
		unchangedByTypology := map[string]int{}
		seen := map[string]bool{}
		for _, c := range r.Cases {
			seen[c.Typology] = true
			if !c.Changed() {
				unchangedByTypology[c.Typology]++
			}
		}
		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if unchangedByTypology[name] < s.registry.MinPoolSize {
				warnings = append(warnings, fmt.Sprintf(
					"typology %q would retain only %d comparable precedents, below the adequacy minimum of %d",
					name, unchangedByTypology[name], s.registry.MinPoolSize))
			}
		}
	}

	for _, c := range r.Cascades {
		if c.ConfidenceTrend == TrendDegraded {
			warnings = append(warnings, fmt.Sprintf(
				"governed confidence for typology %q would degrade from %s to %s",
				c.Typology, c.BeforeConfidence, c.AfterConfidence))
		}
		if c.PostureReversal {
			warnings = append(warnings, fmt.Sprintf(
				"posture reversal in typology %q: dominant disposition flips from %s to %s",
				c.Typology, c.BeforeDominant, c.AfterDominant))
		}
	}

	return warnings
}

func magnitude(r *Report) Magnitude {
	reversal := false
	for _, c := range r.Cascades {
		if c.PostureReversal {
			reversal = true
			break
		}
	}
	escalations := 0
	for _, c := range r.Cases {
		if c.Direction == DirectionUp {
			escalations++
		}
	}
	share := 0.0
	if r.PoolSize > 0 {
		share = float64(r.Aggregate.Affected) / float64(r.PoolSize)
	}

	switch {
	case reversal || share > 0.30:
		return MagnitudeFundamental
	case escalations > 20 || share > 0.15:
		return MagnitudeSignificant
	case r.Aggregate.Affected > 5 || share > 0.05:
		return MagnitudeModerate
	default:
		return MagnitudeMinor
	}
}

// reportID derives a stable id from the draft and the report content, so
// repeated runs over the same pool yield byte-identical reports.
func reportID(draft DraftShift, r *Report) string {
	seed := fmt.Sprintf("verdict:simulation:%s:%d:%d:%s", draft.ID, r.PoolSize, r.Matched, r.Magnitude)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
