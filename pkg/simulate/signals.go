// Package simulate answers "what would change, institution-wide, if we
// adopted rule change D?" against a frozen precedent pool, with no side
// effect on any ledger.
package simulate

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// SignalSet holds compiled boolean predicates over case facts, one per
// named signal. Signals are the indirection between detection logic and
// draft shifts: a draft names signals, never literal fields, so the same
// predicate serves both "has this shift always applied" and "would this
// draft apply".
type SignalSet struct {
	env      *cel.Env
	programs map[string]cel.Program
	names    []string
}

// NewSignalSet compiles one CEL predicate per signal name. Expressions
// see a single "facts" map of scalar case facts.
func NewSignalSet(exprs map[string]string) (*SignalSet, error) {
	env, err := cel.NewEnv(
		cel.Variable("facts", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("simulate: CEL env: %w", err)
	}

	s := &SignalSet{
		env:      env,
		programs: make(map[string]cel.Program, len(exprs)),
		names:    make([]string, 0, len(exprs)),
	}
	for name, expr := range exprs {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("simulate: signal %s: compile: %w", name, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("simulate: signal %s: program: %w", name, err)
		}
		s.programs[name] = prg
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Names returns the signal names in sorted order.
func (s *SignalSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Extract evaluates every predicate against the facts and returns the
// sorted names of those that hold. A predicate that errors (typically a
// field the case does not carry) is treated as not holding; absence of
// evidence never raises a signal.
func (s *SignalSet) Extract(facts map[string]canonical.Value) []string {
	input := map[string]interface{}{"facts": scalarFacts(facts)}

	var present []string
	for _, name := range s.names {
		out, _, err := s.programs[name].Eval(input)
		if err != nil {
			continue
		}
		if hold, ok := out.Value().(bool); ok && hold {
			present = append(present, name)
		}
	}
	return present
}

func scalarFacts(facts map[string]canonical.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(facts))
	for k, v := range facts {
		out[k] = v.Scalar()
	}
	return out
}
