package clearance

import (
	"fmt"

	dErrors "pandora/pkg/domain-errors"
)

// Role is the unified administrative role enumeration. Upstream systems used
// two spellings for the same concept ({ADMIN, MEMBER, VIEWER} for org checks,
// {ADMIN, MANAGER, USER} for provisioning); ParseRole maps both onto this one
// set so only unified values reach the policy engine.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// legacyRoles maps provisioning-era spellings to the unified enumeration.
var legacyRoles = map[string]Role{
	"MANAGER": RoleMember,
	"USER":    RoleViewer,
}

// Valid reports whether r is one of the unified roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole accepts both the unified lowercase spellings and the legacy
// uppercase provisioning names. Unknown values are invalid input.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin", "ADMIN":
		return RoleAdmin, nil
	case "member", "MEMBER":
		return RoleMember, nil
	case "viewer", "VIEWER":
		return RoleViewer, nil
	}
	if role, ok := legacyRoles[s]; ok {
		return role, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown role %q", s))
}
