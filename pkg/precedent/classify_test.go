package precedent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name            string
		caseDisp        Disposition
		precDisp        Disposition
		caseBasis       Basis
		precBasis       Basis
		nonTransferable bool
		want            Match
	}{
		{"unknown case disposition", DispositionUnknown, DispositionAllow, BasisUnknown, BasisUnknown, false, MatchNeutral},
		{"unknown precedent disposition", DispositionAllow, DispositionUnknown, BasisUnknown, BasisUnknown, false, MatchNeutral},
		{"pending precedent never supports", DispositionAllow, DispositionEDD, BasisUnknown, BasisUnknown, false, MatchNeutral},
		{"pending case never contradicts", DispositionEDD, DispositionBlock, BasisUnknown, BasisUnknown, false, MatchNeutral},
		{"both pending supports", DispositionEDD, DispositionEDD, BasisUnknown, BasisUnknown, false, MatchSupporting},
		{"both pending but non-transferable", DispositionEDD, DispositionEDD, BasisUnknown, BasisUnknown, true, MatchNeutral},
		{"cross-basis same outcome", DispositionBlock, DispositionBlock, BasisMandatory, BasisDiscretionary, false, MatchNeutral},
		{"cross-basis opposite outcome", DispositionAllow, DispositionBlock, BasisMandatory, BasisDiscretionary, false, MatchNeutral},
		{"same outcome same basis", DispositionBlock, DispositionBlock, BasisMandatory, BasisMandatory, false, MatchSupporting},
		{"same outcome unknown basis", DispositionAllow, DispositionAllow, BasisUnknown, BasisUnknown, false, MatchSupporting},
		{"same outcome non-transferable", DispositionAllow, DispositionAllow, BasisUnknown, BasisUnknown, true, MatchNeutral},
		{"opposite terminals contrary", DispositionAllow, DispositionBlock, BasisDiscretionary, BasisDiscretionary, false, MatchContrary},
		{"opposite terminals reversed", DispositionBlock, DispositionAllow, BasisUnknown, BasisUnknown, false, MatchContrary},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.caseDisp, tc.precDisp, tc.caseBasis, tc.precBasis, tc.nonTransferable)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNonTransferableNeverSupportsEvenOnExactMatch(t *testing.T) {
	for _, d := range []Disposition{DispositionAllow, DispositionBlock, DispositionEDD} {
		got := Classify(d, d, BasisDiscretionary, BasisDiscretionary, true)
		assert.NotEqual(t, MatchSupporting, got, "disposition %s", d)
	}
}

func TestClassifyTwoAxis(t *testing.T) {
	got := ClassifyTwoAxis(DispositionBlock, DispositionBlock, ReportingNone, ReportingSTR)
	assert.Equal(t, AlignmentSame, got.Operational)
	assert.Equal(t, AlignmentDivergent, got.Suspicion)
	assert.Equal(t, "same action, divergent suspicion finding", got.Composite)

	got = ClassifyTwoAxis(DispositionAllow, DispositionBlock, ReportingNone, ReportingNone)
	assert.Equal(t, AlignmentDivergent, got.Operational)
	assert.Equal(t, AlignmentSame, got.Suspicion)

	got = ClassifyTwoAxis(DispositionUnknown, DispositionBlock, "", ReportingSTR)
	assert.Equal(t, AlignmentIndeterminate, got.Operational)
	assert.Equal(t, AlignmentIndeterminate, got.Suspicion)
	assert.Equal(t, "indeterminate action, indeterminate suspicion finding", got.Composite)
}

func TestTwoAxisNineComposites(t *testing.T) {
	seen := map[string]bool{}
	disps := []Disposition{DispositionAllow, DispositionBlock, DispositionUnknown}
	reps := []Reporting{ReportingNone, ReportingSTR, ""}
	for _, cd := range disps {
		for _, cr := range reps {
			label := ClassifyTwoAxis(cd, DispositionAllow, cr, ReportingNone).Composite
			seen[label] = true
		}
	}
	assert.Len(t, seen, 9)
}
