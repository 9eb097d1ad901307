package namespace

import "fmt"

// Role is the closed set of access roles grantable on a namespace.
type Role string

const (
	RoleRead  Role = "READ"
	RoleWrite Role = "WRITE"
	RoleAdmin Role = "ADMIN"
	RoleQuery Role = "QUERY"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleRead, RoleWrite, RoleAdmin, RoleQuery:
		return true
	}
	return false
}

// AccessRule grants a role on a namespace to a principal. Grants are
// prefix-matched: a rule on "corp.hr" covers "corp.hr.compensation".
// Stored on the ledger as an access_rule cell.
type AccessRule struct {
	Namespace string `json:"namespace"`
	Principal string `json:"principal"`
	Role      Role   `json:"role"`
	GrantedBy string `json:"granted_by"`
}

// NewAccessRule validates and constructs an access rule.
func NewAccessRule(ns, principal string, role Role, grantedBy string) (*AccessRule, error) {
	if err := Validate(ns); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("namespace: unknown role %q", role)
	}
	if principal == "" {
		return nil, fmt.Errorf("namespace: access rule has no principal")
	}
	return &AccessRule{Namespace: ns, Principal: principal, Role: role, GrantedBy: grantedBy}, nil
}

// Covers reports whether this rule grants the given role on target for principal.
// ADMIN covers every role on its subtree.
func (a *AccessRule) Covers(principal, target string, role Role) bool {
	if a.Principal != principal {
		return false
	}
	if !Contains(a.Namespace, target) {
		return false
	}
	return a.Role == role || a.Role == RoleAdmin
}
