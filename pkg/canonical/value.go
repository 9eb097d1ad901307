package canonical

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ValueKind discriminates the Value union.
type ValueKind string

const (
	KindString     ValueKind = "string"
	KindNumber     ValueKind = "number"
	KindBool       ValueKind = "bool"
	KindStructured ValueKind = "structured"
)

// Value is the tagged union used for fact objects: either a scalar
// (string, number, bool) or a structured map. Keeping the type explicit
// makes hashing type-aware: the string "1" and the number 1 canonicalize
// differently and therefore hash differently.
type Value struct {
	Kind   ValueKind              `json:"kind"`
	Str    string                 `json:"str,omitempty"`
	Num    float64                `json:"num,omitempty"`
	Bool   bool                   `json:"bool,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// String constructs a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Structured constructs a structured Value from a map.
func Structured(fields map[string]interface{}) Value {
	return Value{Kind: KindStructured, Fields: fields}
}

// FromAny converts a loosely-typed value (as produced by json.Unmarshal or
// YAML decoding) into a tagged Value.
func FromAny(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, fmt.Errorf("canonical: nil is not a valid fact object")
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("canonical: bad number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case map[string]interface{}:
		return Structured(t), nil
	default:
		return Value{}, fmt.Errorf("canonical: unsupported fact object type %T", v)
	}
}

// IsZero reports whether v is the zero Value (no kind set).
func (v Value) IsZero() bool { return v.Kind == "" }

// Equal reports deep equality between two Values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindStructured:
		a, errA := JCS(v.Fields)
		b, errB := JCS(o.Fields)
		if errA != nil || errB != nil {
			return false
		}
		return string(a) == string(b)
	default:
		return false
	}
}

// Scalar returns the underlying scalar as an interface, or the sorted-key
// map for structured values. Used by comparison functions and CEL bindings.
func (v Value) Scalar() interface{} {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindStructured:
		return v.Fields
	default:
		return nil
	}
}

// DisplayString renders the value for human-readable reasons and warnings.
func (v Value) DisplayString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindStructured:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf("%s=%v", k, v.Fields[k])
		}
		return out + "}"
	default:
		return ""
	}
}
