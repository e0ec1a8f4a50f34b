package model

import (
	"fmt"
	"strings"
)

// Role is the capability an identity acts with.
type Role string

const (
	RoleLeadAuditor Role = "LEAD_AUDITOR"
	RoleAuditor     Role = "AUDITOR"
	RoleAuditee     Role = "AUDITEE"
)

// Roles lists every known role.
var Roles = []Role{RoleLeadAuditor, RoleAuditor, RoleAuditee}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, candidate := range Roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Label returns the display form, e.g. "Lead Auditor".
func (r Role) Label() string {
	words := strings.Split(strings.ToLower(string(r)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParseRole accepts either the constant form (LEAD_AUDITOR) or the label
// form (Lead Auditor), case-insensitively.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	role := Role(normalized)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// Identity is the acting party passed explicitly into every workflow
// operation. In a real deployment it is produced by an external
// authorization check; the engine never infers it.
type Identity struct {
	Name string `json:"name" yaml:"name"`
	Role Role   `json:"role" yaml:"role"`
}

// NewIdentity is a convenience constructor.
func NewIdentity(name string, role Role) Identity {
	return Identity{Name: name, Role: role}
}

func (i Identity) String() string {
	if i.Name == "" {
		return string(i.Role)
	}
	return fmt.Sprintf("%s (%s)", i.Name, i.Role)
}

// User is a roster entry used by presentation pickers.
type User struct {
	Name       string `json:"name" yaml:"name"`
	Role       Role   `json:"role" yaml:"role"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// Identity returns the identity the user acts with.
func (u *User) Identity() Identity {
	return Identity{Name: u.Name, Role: u.Role}
}
