package p2pshare

import (
	"context"
	"sort"
	"sync"
	"time"

	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
)

// InMemoryStore keeps shares in a mutex-guarded map. The compare-and-swap in
// Transition happens under the write lock, which gives the same at-most-once
// guarantee the durable stores provide with conditional updates.
type InMemoryStore struct {
	mu     sync.RWMutex
	shares map[id.ShareID]*P2PShare
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{shares: make(map[id.ShareID]*P2PShare)}
}

func (s *InMemoryStore) Create(_ context.Context, share *P2PShare, now time.Time) error {
	if err := validateShare(share, now); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shares[share.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "share already exists")
	}
	cp := *share
	s.shares[share.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, shareID id.ShareID) (*P2PShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	share, ok := s.shares[shareID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *share
	return &cp, nil
}

func (s *InMemoryStore) Transition(_ context.Context, shareID id.ShareID, to State) (bool, error) {
	if to == StateActive || !to.Valid() {
		return false, dErrors.New(dErrors.CodeInvalidInput, "transition target must be terminal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	share, ok := s.shares[shareID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if share.State != StateActive {
		return false, nil
	}
	share.State = to
	return true, nil
}

func (s *InMemoryStore) ListExpired(_ context.Context, now time.Time, limit int) ([]*P2PShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*P2PShare
	for _, share := range s.shares {
		if share.State == StateActive && share.ExpiresAt != nil && now.After(*share.ExpiresAt) {
			cp := *share
			out = append(out, &cp)
		}
	}
	// Oldest expiry first so a capped sweep clears the backlog in order.
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// validateShare enforces the creation-time contract shared by the store
// implementations.
func validateShare(share *P2PShare, now time.Time) error {
	if share == nil {
		return dErrors.New(dErrors.CodeValidation, "share is required")
	}
	if share.ID.IsNil() || share.FileID.IsNil() || share.RecipientID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "share, file, and recipient IDs are required")
	}
	if share.State != StateActive {
		return dErrors.New(dErrors.CodeValidation, "new shares must be active")
	}
	if share.ExpiresAt != nil && share.ExpiresAt.Before(now) {
		return dErrors.New(dErrors.CodeValidation, "expiry is in the past")
	}
	return nil
}
