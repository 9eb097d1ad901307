// Package namespace implements the ledger's hierarchical namespace model:
// the naming grammar, prefix-scoped access rules, and dual-signed bridges
// that grant cross-namespace visibility.
package namespace

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRE validates dot-separated lowercase segments, e.g. "corp.hr.compensation".
var nameRE = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)

// Validate checks the namespace grammar.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("namespace: empty name")
	}
	if !nameRE.MatchString(name) {
		return fmt.Errorf("namespace: invalid name %q (want dot-separated lowercase segments)", name)
	}
	return nil
}

// IsParentOf reports whether parent strictly contains child
// ("corp.hr" is a parent of "corp.hr.compensation" but not of itself).
func IsParentOf(parent, child string) bool {
	return parent != child && strings.HasPrefix(child, parent+".")
}

// IsChildOf reports whether child is strictly inside parent.
func IsChildOf(child, parent string) bool {
	return IsParentOf(parent, child)
}

// Contains reports whether scope covers target: equal, or a strict parent.
// This is the prefix-matching rule used by access grants: owning a parent
// namespace implies access to its children.
func Contains(scope, target string) bool {
	return scope == target || IsParentOf(scope, target)
}

// Sensitivity classifies a namespace's data sensitivity.
type Sensitivity string

const (
	SensitivityPublic       Sensitivity = "public"
	SensitivityInternal     Sensitivity = "internal"
	SensitivityConfidential Sensitivity = "confidential"
	SensitivityRestricted   Sensitivity = "restricted"
)

// Definition declares a namespace: who owns it and how it is handled.
// Stored on the ledger as a namespace_def cell.
type Definition struct {
	Name          string      `json:"name"`
	Owner         string      `json:"owner"`
	Sensitivity   Sensitivity `json:"sensitivity"`
	RetentionDays int         `json:"retention_days,omitempty"`
	Encrypted     bool        `json:"encrypted,omitempty"`
}

// NewDefinition validates and constructs a namespace definition.
func NewDefinition(name, owner string, sensitivity Sensitivity) (*Definition, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, fmt.Errorf("namespace: definition for %q has no owner", name)
	}
	return &Definition{Name: name, Owner: owner, Sensitivity: sensitivity}, nil
}
