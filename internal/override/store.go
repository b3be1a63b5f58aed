package override

import (
	"context"
	"time"

	id "pandora/pkg/domain"
)

// Store is the durable override store contract. Implementations return
// sentinel.ErrNotFound (optionally wrapped) for absent records; the policy
// engine treats that as "no override", never as a failure.
//
// The comparison instant for activity is always supplied by the caller so
// decisions stay testable and the lookup and the decision share one clock
// reading.
type Store interface {
	// Create persists a new override. It fails with a validation error when
	// permission, effect, or resource type is outside the defined
	// enumerations, or when ExpiresAt is already before now.
	Create(ctx context.Context, o *AccessOverride, now time.Time) error

	// FindActive returns the single override that matters for a decision on
	// (userID, resourceID) at the given instant: any active deny wins;
	// otherwise the most permissive active allow. Expired overrides are never
	// returned regardless of when they were created.
	FindActive(ctx context.Context, userID id.UserID, resourceID id.ResourceID, now time.Time) (*AccessOverride, error)

	// Revoke deletes an override by ID.
	Revoke(ctx context.Context, overrideID id.OverrideID) error

	// ListForResource returns all overrides targeting a resource, active or
	// not, for administrative review.
	ListForResource(ctx context.Context, resourceID id.ResourceID) ([]*AccessOverride, error)

	// DeleteExpired bulk-removes overrides whose expiry has passed and
	// returns the count removed. Idempotent: a clean store yields 0, not an
	// error.
	DeleteExpiredOverrides(ctx context.Context, now time.Time) (int, error)
}
