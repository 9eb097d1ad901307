package engine

import "github.com/adjudilane/verdict/pkg/canonical"

// GateOutcome is the escalation/filing decision of a dual gate.
type GateOutcome string

const (
	GateClear    GateOutcome = "CLEAR"
	GateEscalate GateOutcome = "ESCALATE"
	GateFile     GateOutcome = "FILE"
)

// DualGate is the institutional escalation decision table. The engine
// consumes it as a black box: implementations decide, the engine records.
type DualGate interface {
	Evaluate(facts map[string]canonical.Value, obligations, indicators []string,
		maturity string, mitigations []string, suspicion bool) (GateOutcome, string)
}

// TableGate is a minimal decision table: suspicion files, open
// indicators escalate, everything else clears. Mitigations cancel
// indicators one for one before the escalation check.
type TableGate struct{}

func (TableGate) Evaluate(facts map[string]canonical.Value, obligations, indicators []string,
	maturity string, mitigations []string, suspicion bool) (GateOutcome, string) {
	if suspicion {
		return GateFile, "suspicion finding stands, mandatory filing"
	}
	open := len(indicators) - len(mitigations)
	if open > 0 {
		return GateEscalate, "unmitigated risk indicators remain"
	}
	return GateClear, "no suspicion and all indicators mitigated"
}
