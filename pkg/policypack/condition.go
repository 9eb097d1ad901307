package policypack

import (
	"fmt"
	"strings"

	"github.com/adjudilane/verdict/pkg/canonical"
)

// Condition is a recursive boolean expression over case facts:
// All(children) / Any(children) / a leaf comparison. Exactly one form
// must be populated.
type Condition struct {
	All []*Condition `json:"all,omitempty" yaml:"all,omitempty"`
	Any []*Condition `json:"any,omitempty" yaml:"any,omitempty"`

	Field string      `json:"field,omitempty" yaml:"field,omitempty"`
	Op    string      `json:"op,omitempty" yaml:"op,omitempty"`
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

// Comparison operators.
const (
	OpEq     = "eq"
	OpNe     = "ne"
	OpGt     = "gt"
	OpGte    = "gte"
	OpLt     = "lt"
	OpLte    = "lte"
	OpIn     = "in"
	OpExists = "exists"
)

// Check validates the condition tree shape recursively.
func (c *Condition) Check() error {
	forms := 0
	if len(c.All) > 0 {
		forms++
	}
	if len(c.Any) > 0 {
		forms++
	}
	if c.Field != "" {
		forms++
	}
	if forms != 1 {
		return fmt.Errorf("policypack: condition must be exactly one of all/any/comparison")
	}
	for _, child := range append(append([]*Condition{}, c.All...), c.Any...) {
		if err := child.Check(); err != nil {
			return err
		}
	}
	if c.Field != "" {
		switch c.Op {
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpExists:
		default:
			return fmt.Errorf("policypack: unknown operator %q on field %s", c.Op, c.Field)
		}
	}
	return nil
}

// Eval interprets the condition against a fact map. A missing field fails
// every comparison except "exists" (which it fails too). Conditions are
// evaluated over what is known, never over assumptions.
func (c *Condition) Eval(facts map[string]canonical.Value) bool {
	switch {
	case len(c.All) > 0:
		for _, child := range c.All {
			if !child.Eval(facts) {
				return false
			}
		}
		return true
	case len(c.Any) > 0:
		for _, child := range c.Any {
			if child.Eval(facts) {
				return true
			}
		}
		return false
	default:
		return c.evalCompare(facts)
	}
}

func (c *Condition) evalCompare(facts map[string]canonical.Value) bool {
	v, ok := facts[c.Field]
	if c.Op == OpExists {
		return ok && !v.IsZero()
	}
	if !ok {
		return false
	}

	switch c.Op {
	case OpEq:
		return looseEqual(v, c.Value)
	case OpNe:
		return !looseEqual(v, c.Value)
	case OpIn:
		items, ok := c.Value.([]interface{})
		if !ok {
			return false
		}
		for _, item := range items {
			if looseEqual(v, item) {
				return true
			}
		}
		return false
	case OpGt, OpGte, OpLt, OpLte:
		if v.Kind != canonical.KindNumber {
			return false
		}
		ref, ok := toFloat(c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case OpGt:
			return v.Num > ref
		case OpGte:
			return v.Num >= ref
		case OpLt:
			return v.Num < ref
		default:
			return v.Num <= ref
		}
	}
	return false
}

// looseEqual compares a fact value against a raw condition constant:
// strings case-insensitively, numbers across int/float encodings.
func looseEqual(v canonical.Value, raw interface{}) bool {
	switch v.Kind {
	case canonical.KindString:
		s, ok := raw.(string)
		return ok && strings.EqualFold(v.Str, s)
	case canonical.KindBool:
		b, ok := raw.(bool)
		return ok && v.Bool == b
	case canonical.KindNumber:
		f, ok := toFloat(raw)
		return ok && v.Num == f
	default:
		return false
	}
}

func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
