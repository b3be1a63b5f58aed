// Package p2pshare implements the peer-to-peer share lifecycle: direct,
// optionally view-once file handoffs that bypass the clearance hierarchy.
// Resources at the PEER_TO_PEER level are reachable only through this path.
package p2pshare

import (
	"time"

	id "pandora/pkg/domain"
)

// State is the share lifecycle state. Active is the only non-terminal state;
// every transition out of it is irreversible.
type State string

const (
	StateActive    State = "active"
	StateConsumed  State = "consumed"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
)

func (s State) Valid() bool {
	switch s {
	case StateActive, StateConsumed, StateCancelled, StateExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s != StateActive
}

// P2PShare is one direct file handoff. InviteHash is the bcrypt hash of the
// invite secret returned once at creation; the plaintext is never stored.
type P2PShare struct {
	ID          id.ShareID
	FileID      id.FileID
	RecipientID id.UserID
	CreatedBy   id.UserID
	ViewOnce    bool
	InviteHash  string
	State       State
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// ActiveAt reports whether the share is retrievable at the given instant.
// The stored state may still read Active after the wall-clock expiry; the
// sweep worker reconciles it, but callers must not trust a lapsed share.
func (p *P2PShare) ActiveAt(now time.Time) bool {
	if p.State != StateActive {
		return false
	}
	return p.ExpiresAt == nil || !now.After(*p.ExpiresAt)
}

// FilePath is the resolved location of a shared file, released to the caller
// at most once for view-once shares.
type FilePath string

// RetrievalGrant is the proof a caller presents to retrieve a share: either
// the recipient's identity or the invite secret handed out at creation.
// Exactly one of the two is consulted; identity wins when both are set.
type RetrievalGrant struct {
	CallerID     id.UserID
	InviteSecret string
}
