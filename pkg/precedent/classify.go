package precedent

// Match is the categorical label assigned to a (case, precedent) pair.
type Match string

const (
	MatchSupporting Match = "supporting"
	MatchContrary   Match = "contrary"
	MatchNeutral    Match = "neutral"
)

// Classify turns a scored (case, precedent) pair into a match label under
// strict non-inflation invariants. Rules apply in order:
//
//  1. Either disposition UNKNOWN: neutral, unconditionally.
//  2. Either side EDD but not both: neutral; a pending case can never be
//     called supporting or contrary.
//  3. Both EDD: supporting, unless the match is non-transferable, in which
//     case neutral. A non-transferable precedent can never count as
//     supporting evidence, even on an exact disposition match.
//  4. Both bases known and different: neutral; mandatory and
//     discretionary outcomes never support or contradict each other.
//  5. Identical dispositions: supporting, subject to the same
//     non-transferable override.
//  6. Opposite terminal states (ALLOW vs BLOCK): contrary.
//  7. Anything else: neutral.
func Classify(caseDisp, precDisp Disposition, caseBasis, precBasis Basis, nonTransferable bool) Match {
	if caseDisp == DispositionUnknown || precDisp == DispositionUnknown {
		return MatchNeutral
	}

	caseEDD := caseDisp == DispositionEDD
	precEDD := precDisp == DispositionEDD
	if caseEDD != precEDD {
		return MatchNeutral
	}
	if caseEDD && precEDD {
		if nonTransferable {
			return MatchNeutral
		}
		return MatchSupporting
	}

	if caseBasis != BasisUnknown && precBasis != BasisUnknown && caseBasis != precBasis {
		return MatchNeutral
	}

	if caseDisp == precDisp {
		if nonTransferable {
			return MatchNeutral
		}
		return MatchSupporting
	}

	if (caseDisp == DispositionAllow && precDisp == DispositionBlock) ||
		(caseDisp == DispositionBlock && precDisp == DispositionAllow) {
		return MatchContrary
	}

	return MatchNeutral
}

// Alignment is one axis of the two-axis classification.
type Alignment string

const (
	AlignmentSame          Alignment = "same"
	AlignmentDivergent     Alignment = "divergent"
	AlignmentIndeterminate Alignment = "indeterminate"
)

// TwoAxis separates operational alignment (did both cases reach the same
// action tier) from regulatory-suspicion alignment (did both reach the
// same filing conclusion). Two cases can agree operationally while
// disagreeing on the regulatory conclusion; that distinction survives
// into the report instead of being collapsed.
type TwoAxis struct {
	Operational Alignment `json:"operational"`
	Suspicion   Alignment `json:"suspicion"`
	Composite   string    `json:"composite"`
}

// ClassifyTwoAxis computes both axes and the composite label (one of nine).
func ClassifyTwoAxis(caseDisp, precDisp Disposition, caseRep, precRep Reporting) TwoAxis {
	var out TwoAxis

	switch {
	case caseDisp == DispositionUnknown || precDisp == DispositionUnknown:
		out.Operational = AlignmentIndeterminate
	case caseDisp == precDisp:
		out.Operational = AlignmentSame
	default:
		out.Operational = AlignmentDivergent
	}

	switch {
	case caseRep == "" || precRep == "":
		out.Suspicion = AlignmentIndeterminate
	case caseRep == precRep:
		out.Suspicion = AlignmentSame
	default:
		out.Suspicion = AlignmentDivergent
	}

	out.Composite = compositeLabel(out.Operational, out.Suspicion)
	return out
}

func compositeLabel(op, su Alignment) string {
	opLabel := map[Alignment]string{
		AlignmentSame:          "same action",
		AlignmentDivergent:     "divergent action",
		AlignmentIndeterminate: "indeterminate action",
	}[op]
	suLabel := map[Alignment]string{
		AlignmentSame:          "same suspicion finding",
		AlignmentDivergent:     "divergent suspicion finding",
		AlignmentIndeterminate: "indeterminate suspicion finding",
	}[su]
	return opLabel + ", " + suLabel
}
