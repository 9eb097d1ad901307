package domain

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// registryDoc is the YAML document shape for a domain registry.
type registryDoc struct {
	Domain      string            `yaml:"domain"`
	Version     string            `yaml:"version"`
	MinPoolSize int               `yaml:"min_pool_size"`
	Fields      []FieldDefinition `yaml:"fields"`
	Gates       []Gate            `yaml:"gates"`
}

// Load reads a registry document from YAML and validates every field
// definition.
func Load(r io.Reader) (*Registry, error) {
	var doc registryDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("domain: registry decode failed: %w", err)
	}
	if doc.Domain == "" {
		return nil, fmt.Errorf("domain: registry document missing domain name")
	}
	return NewRegistry(doc.Domain, doc.Version, doc.MinPoolSize, doc.Fields, doc.Gates)
}
