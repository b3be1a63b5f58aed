// Package policy implements the access-control decision engine: clearance
// dominance, role gates, and override precedence combined into one ordered
// rule chain.
package policy

import (
	"pandora/internal/clearance"
	"pandora/internal/override"
	id "pandora/pkg/domain"
)

// Effect is the outcome of a decision. Deny is a normal, successfully
// computed value, not an error: callers branch on it without try/catch
// machinery and the audit log captures every deny as a first-class event.
type Effect string

const (
	Allow Effect = "ALLOW"
	Deny  Effect = "DENY"
)

// Reason is the machine-readable explanation recorded with each decision.
// Reasons feed the audit trail only; HTTP responses carry a generic message
// so clearance information never leaks to an unauthorized requester.
type Reason string

const (
	ReasonOverride              Reason = "override"
	ReasonOverrideDeny          Reason = "override-deny"
	ReasonInsufficientRole      Reason = "insufficient-role"
	ReasonInsufficientClearance Reason = "insufficient-clearance"
	ReasonClearanceSufficient   Reason = "clearance-sufficient"
	ReasonInvalidInput          Reason = "invalid-input"
)

// Decision is the immutable output of the engine.
type Decision struct {
	Effect Effect
	Reason Reason
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool { return d.Effect == Allow }

// Resource identifies the target of a decision.
type Resource struct {
	ID        id.ResourceID
	Type      override.ResourceType
	Clearance clearance.Level
}

// Action enumerates the operations the engine rules on.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionShare  Action = "share"
	// Administrative mutations: changing another user's role or clearance.
	// These require the dual gate (admin role AND >= CONFIDENTIAL clearance).
	ActionRoleUpdate      Action = "role.update"
	ActionClearanceUpdate Action = "clearance.update"
)

var actionPermissions = map[Action]override.Permission{
	ActionRead:            override.PermissionRead,
	ActionWrite:           override.PermissionWrite,
	ActionDelete:          override.PermissionWrite,
	ActionShare:           override.PermissionWrite,
	ActionRoleUpdate:      override.PermissionAdmin,
	ActionClearanceUpdate: override.PermissionAdmin,
}

// Valid reports whether the action is one the engine knows.
func (a Action) Valid() bool {
	_, ok := actionPermissions[a]
	return ok
}

// RequiredPermission maps the action onto the override permission class that
// covers it.
func (a Action) RequiredPermission() override.Permission {
	return actionPermissions[a]
}

// AdminOnly reports whether the action is gated on the administrative role.
func (a Action) AdminOnly() bool {
	return a == ActionRoleUpdate || a == ActionClearanceUpdate
}
