package clearance

import (
	id "pandora/pkg/domain"
)

// Context is the subject's resolved standing for one request: who they are,
// which org they act in, and the role and clearance durably assigned to that
// (user, org) pair. It is resolved once by the auth boundary and never
// inferred from the resource being accessed.
type Context struct {
	UserID    id.UserID
	OrgID     id.OrgID
	Role      Role
	Clearance Level
}

// Valid reports whether the context carries a usable subject identity and
// well-formed role/clearance values.
func (c Context) Valid() bool {
	return !c.UserID.IsNil() && !c.OrgID.IsNil() && c.Role.Valid() && c.Clearance.Valid()
}

// HasRole reports strict role equality. There is no role hierarchy: an admin
// does not implicitly hold member, and vice versa.
func (c Context) HasRole(required Role) bool {
	return c.Role == required
}

// CanAdminister implements the dual gate for sensitive mutations: the subject
// must hold the admin role AND at least CONFIDENTIAL clearance. Compromising
// either field alone is insufficient to escalate privilege.
func (c Context) CanAdminister() bool {
	return c.HasRole(RoleAdmin) && c.Clearance >= Confidential
}
