package policypack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// packSchema is the structural contract every pack document must satisfy
// before the engine will hash or evaluate it.
const packSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["meta", "coverages"],
  "properties": {
    "meta": {
      "type": "object",
      "required": ["id", "name", "version", "line_of_business"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string", "minLength": 1},
        "version": {"type": "string", "minLength": 1},
        "jurisdiction": {"type": "string"},
        "line_of_business": {"type": "string", "minLength": 1},
        "engine_constraint": {"type": "string"}
      }
    },
    "coverages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "code", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "code": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1}
        }
      }
    },
    "exclusions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "code", "name", "trigger"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "code": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "wording": {"type": "string"},
          "applies_to": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("pack.schema.json", packSchema)

// Load decodes, schema-validates, and reference-checks a YAML pack
// document. engineVersion is checked against the pack's engine
// constraint (semver); a pack written for a different engine line is
// rejected at load time, not at decision time.
func Load(r io.Reader, engineVersion string) (*Pack, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("policypack: read failed: %w", err)
	}

	var p Pack
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("policypack: decode failed: %w", err)
	}

	// Schema validation runs over the JSON projection of the decoded
	// document so the schema sees the same shapes independent verifiers do.
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("policypack: projection failed: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(jsonBytes, &generic); err != nil {
		return nil, fmt.Errorf("policypack: projection decode failed: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("policypack: schema validation failed: %w", err)
	}

	if err := checkReferences(&p); err != nil {
		return nil, err
	}
	if err := checkEngineConstraint(&p, engineVersion); err != nil {
		return nil, err
	}
	return &p, nil
}

// checkReferences enforces reference integrity: unique ids, exclusion
// coverage references resolving, and well-formed condition trees.
func checkReferences(p *Pack) error {
	coverageIDs := make(map[string]bool, len(p.Coverages))
	for _, c := range p.Coverages {
		if coverageIDs[c.ID] {
			return fmt.Errorf("policypack: duplicate coverage id %q", c.ID)
		}
		coverageIDs[c.ID] = true
	}

	exclusionIDs := make(map[string]bool, len(p.Exclusions))
	for _, e := range p.Exclusions {
		if exclusionIDs[e.ID] {
			return fmt.Errorf("policypack: duplicate exclusion id %q", e.ID)
		}
		exclusionIDs[e.ID] = true
		if e.Trigger == nil {
			return fmt.Errorf("policypack: exclusion %q has no trigger", e.ID)
		}
		if err := e.Trigger.Check(); err != nil {
			return fmt.Errorf("policypack: exclusion %q: %w", e.ID, err)
		}
		for _, ref := range e.AppliesTo {
			if !coverageIDs[ref] {
				return fmt.Errorf("policypack: exclusion %q references unknown coverage %q", e.ID, ref)
			}
		}
	}

	for _, rule := range p.EvidenceRules {
		if rule.When != nil {
			if err := rule.When.Check(); err != nil {
				return fmt.Errorf("policypack: evidence rule %q: %w", rule.ID, err)
			}
		}
	}
	for _, rule := range p.TimelineRules {
		if rule.When != nil {
			if err := rule.When.Check(); err != nil {
				return fmt.Errorf("policypack: timeline rule %q: %w", rule.ID, err)
			}
		}
	}
	for _, rule := range p.AuthorityRules {
		if rule.When != nil {
			if err := rule.When.Check(); err != nil {
				return fmt.Errorf("policypack: authority rule %q: %w", rule.ID, err)
			}
		}
	}
	return nil
}

func checkEngineConstraint(p *Pack, engineVersion string) error {
	if p.Meta.EngineConstraint == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(p.Meta.EngineConstraint)
	if err != nil {
		return fmt.Errorf("policypack: bad engine constraint %q: %w", p.Meta.EngineConstraint, err)
	}
	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("policypack: bad engine version %q: %w", engineVersion, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("policypack: pack %s requires engine %q, engine is %s",
			p.Meta.ID, p.Meta.EngineConstraint, engineVersion)
	}
	return nil
}
