package simulate

import (
	"github.com/adjudilane/verdict/pkg/confidence"
	"github.com/adjudilane/verdict/pkg/precedent"
)

// CaseImpact records one matching precedent's simulated movement.
type CaseImpact struct {
	SeedID          string                `json:"seed_id"`
	Typology        string                `json:"typology"`
	Segment         string                `json:"segment,omitempty"`
	Before          precedent.Disposition `json:"before"`
	After           precedent.Disposition `json:"after"`
	BeforeReporting precedent.Reporting   `json:"before_reporting"`
	AfterReporting  precedent.Reporting   `json:"after_reporting"`
	Direction       Direction             `json:"direction"`
}

// Changed reports whether the case moves on either axis.
func (c CaseImpact) Changed() bool {
	return c.Before != c.After || c.BeforeReporting != c.AfterReporting
}

// Aggregate holds the pool-wide counts of step 4.
type Aggregate struct {
	Affected            int            `json:"affected"`
	Unaffected          int            `json:"unaffected"`
	Transitions         map[string]int `json:"transitions"`
	NewMandatoryFilings int            `json:"new_mandatory_filings"`
	TierBefore          map[string]int `json:"tier_before"`
	TierAfter           map[string]int `json:"tier_after"`
}

// CascadeImpact is the per-typology institutional analysis: disposition
// distributions and governed confidence before and after, and whether
// the typology's dominant disposition flips.
type CascadeImpact struct {
	Typology           string                        `json:"typology"`
	BeforeDistribution map[precedent.Disposition]int `json:"before_distribution"`
	AfterDistribution  map[precedent.Disposition]int `json:"after_distribution"`
	BeforeDominant     precedent.Disposition         `json:"before_dominant"`
	AfterDominant      precedent.Disposition         `json:"after_dominant"`
	BeforeConfidence   confidence.Level              `json:"before_confidence"`
	AfterConfidence    confidence.Level              `json:"after_confidence"`
	ConfidenceTrend    Trend                         `json:"confidence_trend"`
	PostureReversal    bool                          `json:"posture_reversal"`
}

// Report is the full output of one simulation run.
type Report struct {
	ReportID  string          `json:"report_id"`
	DraftID   string          `json:"draft_id"`
	PoolSize  int             `json:"pool_size"`
	Matched   int             `json:"matched"`
	Cases     []CaseImpact    `json:"cases"`
	Aggregate Aggregate       `json:"aggregate"`
	Cascades  []CascadeImpact `json:"cascades"`
	Warnings  []string        `json:"warnings"`
	Magnitude Magnitude       `json:"magnitude"`
}

// EnactmentRecord is the pure "ready to promote" output of Enact. The
// caller persists it as a policy-shift cell if approved; producing it
// mutates nothing.
type EnactmentRecord struct {
	RecordID       string      `json:"record_id"`
	ShiftID        string      `json:"shift_id"`
	Parameter      string      `json:"parameter"`
	OldValue       interface{} `json:"old_value"`
	NewValue       interface{} `json:"new_value"`
	Magnitude      Magnitude   `json:"magnitude"`
	CascadeSummary []string    `json:"cascade_summary"`
	WarningCount   int         `json:"warning_count"`
	MatchedCases   int         `json:"matched_cases"`
}
