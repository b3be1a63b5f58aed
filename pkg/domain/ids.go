// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "pandora/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing UserID where FileID is expected.
type (
	UserID     uuid.UUID
	OrgID      uuid.UUID
	FileID     uuid.UUID
	ResourceID uuid.UUID
	ShareID    uuid.UUID
	OverrideID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseOrgID(s string) (OrgID, error) {
	id, err := parseUUID(s, "org ID")
	return OrgID(id), err
}

func ParseFileID(s string) (FileID, error) {
	id, err := parseUUID(s, "file ID")
	return FileID(id), err
}

func ParseResourceID(s string) (ResourceID, error) {
	id, err := parseUUID(s, "resource ID")
	return ResourceID(id), err
}

func ParseShareID(s string) (ShareID, error) {
	id, err := parseUUID(s, "share ID")
	return ShareID(id), err
}

func ParseOverrideID(s string) (OverrideID, error) {
	id, err := parseUUID(s, "override ID")
	return OverrideID(id), err
}

// New functions - generate fresh identifiers at creation sites.

func NewShareID() ShareID       { return ShareID(uuid.New()) }
func NewOverrideID() OverrideID { return OverrideID(uuid.New()) }

// String methods - for logging and debugging.

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id OrgID) String() string      { return uuid.UUID(id).String() }
func (id FileID) String() string     { return uuid.UUID(id).String() }
func (id ResourceID) String() string { return uuid.UUID(id).String() }
func (id ShareID) String() string    { return uuid.UUID(id).String() }
func (id OverrideID) String() string { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OrgID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id FileID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ResourceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ShareID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id OverrideID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
