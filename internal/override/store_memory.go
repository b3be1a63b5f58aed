package override

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
)

// InMemoryStore keeps overrides in a mutex-guarded map. It backs unit tests
// and single-node development; it intentionally favors clarity over
// performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	overrides map[id.OverrideID]*AccessOverride
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{overrides: make(map[id.OverrideID]*AccessOverride)}
}

func (s *InMemoryStore) Create(_ context.Context, o *AccessOverride, now time.Time) error {
	if err := validateOverride(o, now); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.overrides[o.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindActive(_ context.Context, userID id.UserID, resourceID id.ResourceID, now time.Time) (*AccessOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *AccessOverride
	for _, o := range s.overrides {
		if o.UserID != userID || o.ResourceID != resourceID || !o.ActiveAt(now) {
			continue
		}
		if betterMatch(o, best) {
			best = o
		}
	}
	if best == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

// betterMatch implements the precedence FindActive promises: deny beats
// allow, and among equals the higher permission rank wins.
func betterMatch(candidate, current *AccessOverride) bool {
	if current == nil {
		return true
	}
	if candidate.Effect != current.Effect {
		return candidate.Effect == EffectDeny
	}
	return candidate.Permission.Rank() > current.Permission.Rank()
}

func (s *InMemoryStore) Revoke(_ context.Context, overrideID id.OverrideID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.overrides[overrideID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.overrides, overrideID)
	return nil
}

func (s *InMemoryStore) ListForResource(_ context.Context, resourceID id.ResourceID) ([]*AccessOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*AccessOverride
	for _, o := range s.overrides {
		if o.ResourceID == resourceID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) DeleteExpiredOverrides(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, o := range s.overrides {
		if o.ExpiresAt != nil && o.ExpiresAt.Before(now) {
			delete(s.overrides, key)
			deleted++
		}
	}
	return deleted, nil
}

// validateOverride enforces the creation-time contract shared by both store
// implementations.
func validateOverride(o *AccessOverride, now time.Time) error {
	if o == nil {
		return dErrors.New(dErrors.CodeValidation, "override is required")
	}
	if !o.Permission.Valid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown permission %q", o.Permission))
	}
	if !o.Effect.Valid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown effect %q", o.Effect))
	}
	if !o.ResourceType.Valid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown resource type %q", o.ResourceType))
	}
	if o.ExpiresAt != nil && o.ExpiresAt.Before(now) {
		return dErrors.New(dErrors.CodeValidation, "expiry is in the past")
	}
	return nil
}
