// Package override implements time-bounded access overrides: explicit grants
// or denials that supersede the clearance-based decision for one
// subject/resource pair.
package override

import (
	"time"

	id "pandora/pkg/domain"
)

// Effect is what an override does to the decision: an unconditional allow or
// an unconditional deny. Deny is absolute and beats any allow for the same key.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// Permission is the access class an override covers.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

var permissionRank = map[Permission]int{
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
}

func (p Permission) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// Covers reports whether holding p satisfies a check for required.
// admin covers write covers read.
func (p Permission) Covers(required Permission) bool {
	return permissionRank[p] >= permissionRank[required]
}

// Rank orders permissions by permissiveness; used by stores to pick the most
// permissive active allow when duplicates exist.
func (p Permission) Rank() int {
	return permissionRank[p]
}

// ResourceType enumerates the resource kinds an override can target.
type ResourceType string

const (
	ResourceFile    ResourceType = "file"
	ResourceProject ResourceType = "project"
	ResourceTeam    ResourceType = "team"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFile, ResourceProject, ResourceTeam:
		return true
	}
	return false
}

// AccessOverride is an escape hatch layered above the clearance hierarchy:
// while active it satisfies (or forbids) its permission for its resource
// regardless of the subject's clearance.
type AccessOverride struct {
	ID           id.OverrideID
	UserID       id.UserID
	ResourceID   id.ResourceID
	ResourceType ResourceType
	Permission   Permission
	Effect       Effect
	GrantedBy    id.UserID
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// ActiveAt reports whether the override is live at the given instant. An
// override with no expiry never lapses; otherwise it is inactive the instant
// now passes ExpiresAt.
func (o *AccessOverride) ActiveAt(now time.Time) bool {
	return o.ExpiresAt == nil || !now.After(*o.ExpiresAt)
}
