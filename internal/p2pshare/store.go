package p2pshare

import (
	"context"
	"time"

	id "pandora/pkg/domain"
)

// Store is the durable share store contract. The single correctness-critical
// method is Transition: it must be a conditional update on the stored state,
// so that two racing callers can never both observe success for the same
// share. Implementations return sentinel.ErrNotFound for absent shares.
type Store interface {
	// Create persists a new share in the Active state. Fails with a
	// validation error when the expiry is already before now.
	Create(ctx context.Context, share *P2PShare, now time.Time) error

	// FindByID returns the share regardless of state.
	FindByID(ctx context.Context, shareID id.ShareID) (*P2PShare, error)

	// Transition atomically moves the share from Active to the given
	// terminal state. Returns false, with no error, when the share exists
	// but is no longer Active; the caller lost the race and must treat the
	// stored state as authoritative.
	Transition(ctx context.Context, shareID id.ShareID, to State) (bool, error)

	// ListExpired returns Active shares whose expiry precedes now, capped at
	// limit. The sweep worker transitions each through Transition so a
	// concurrent retrieve or cancel still wins cleanly.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*P2PShare, error)
}
