package domain

import (
	"fmt"
	"sort"
)

// Gate is a named comparability pre-filter with its own equivalence
// classing. Gates are a hard filter, not a weighted term: one failed gate
// makes a precedent categorically non-comparable.
type Gate struct {
	Field   string              `json:"field" yaml:"field"`
	Classes map[string][]string `json:"classes" yaml:"classes"`
}

// Registry declares one business domain's comparability configuration.
type Registry struct {
	Domain      string                     `json:"domain" yaml:"domain"`
	Version     string                     `json:"version" yaml:"version"`
	MinPoolSize int                        `json:"min_pool_size" yaml:"min_pool_size"`
	Fields      map[string]FieldDefinition `json:"fields" yaml:"fields"`
	Gates       []Gate                     `json:"gates" yaml:"gates"`
}

// NewRegistry validates every field definition and returns the registry.
func NewRegistry(domainName, version string, minPool int, fields []FieldDefinition, gates []Gate) (*Registry, error) {
	r := &Registry{
		Domain:      domainName,
		Version:     version,
		MinPoolSize: minPool,
		Fields:      make(map[string]FieldDefinition, len(fields)),
		Gates:       gates,
	}
	for _, f := range fields {
		validated, err := NewField(f)
		if err != nil {
			return nil, err
		}
		if _, dup := r.Fields[validated.ID]; dup {
			return nil, fmt.Errorf("domain: duplicate field %s in registry %s", validated.ID, domainName)
		}
		r.Fields[validated.ID] = validated
	}
	for _, g := range gates {
		if len(g.Classes) == 0 {
			return nil, fmt.Errorf("domain: gate %s has no equivalence classes", g.Field)
		}
	}
	return r, nil
}

// Field returns the definition for id.
func (r *Registry) Field(id string) (FieldDefinition, bool) {
	f, ok := r.Fields[id]
	return f, ok
}

// ScoringFields returns the scoring-eligible fields (non-STRUCTURAL) in
// deterministic id order.
func (r *Registry) ScoringFields() []FieldDefinition {
	out := make([]FieldDefinition, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Tier == TierStructural {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CriticalFields returns the ids of fields flagged critical, sorted.
func (r *Registry) CriticalFields() []string {
	var out []string
	for id, f := range r.Fields {
		if f.Critical {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// FieldIDs returns all declared field ids, sorted.
func (r *Registry) FieldIDs() []string {
	out := make([]string, 0, len(r.Fields))
	for id := range r.Fields {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
