package override

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store    *InMemoryStore
	ctx      context.Context
	user     id.UserID
	resource id.ResourceID
	now      time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.user = id.UserID(uuid.New())
	s.resource = id.ResourceID(uuid.New())
	s.now = time.Now()
}

func (s *InMemoryStoreSuite) add(effect Effect, perm Permission, expiresAt *time.Time) *AccessOverride {
	o := &AccessOverride{
		ID:           id.NewOverrideID(),
		UserID:       s.user,
		ResourceID:   s.resource,
		ResourceType: ResourceFile,
		Permission:   perm,
		Effect:       effect,
		GrantedBy:    id.UserID(uuid.New()),
		ExpiresAt:    expiresAt,
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, o, s.now))
	return o
}

func (s *InMemoryStoreSuite) TestFindActive_NoneIsNotFound() {
	_, err := s.store.FindActive(s.ctx, s.user, s.resource, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFindActive_DenyBeatsAllow() {
	s.add(EffectAllow, PermissionAdmin, nil)
	deny := s.add(EffectDeny, PermissionRead, nil)

	got, err := s.store.FindActive(s.ctx, s.user, s.resource, s.now)
	s.Require().NoError(err)
	s.Equal(deny.ID, got.ID)
	s.Equal(EffectDeny, got.Effect)
}

func (s *InMemoryStoreSuite) TestFindActive_MostPermissiveAllowWins() {
	s.add(EffectAllow, PermissionRead, nil)
	write := s.add(EffectAllow, PermissionWrite, nil)

	got, err := s.store.FindActive(s.ctx, s.user, s.resource, s.now)
	s.Require().NoError(err)
	s.Equal(write.ID, got.ID)
}

func (s *InMemoryStoreSuite) TestFindActive_ExpiredDenyDoesNotWin() {
	soon := s.now.Add(time.Hour)
	s.add(EffectDeny, PermissionRead, &soon)
	allow := s.add(EffectAllow, PermissionRead, nil)

	later := s.now.Add(2 * time.Hour)
	got, err := s.store.FindActive(s.ctx, s.user, s.resource, later)
	s.Require().NoError(err)
	s.Equal(allow.ID, got.ID)
}

func (s *InMemoryStoreSuite) TestFindActive_ActiveThroughExpiryInstant() {
	expiry := s.now.Add(time.Hour)
	o := s.add(EffectAllow, PermissionRead, &expiry)

	got, err := s.store.FindActive(s.ctx, s.user, s.resource, expiry)
	s.Require().NoError(err)
	s.Equal(o.ID, got.ID)

	_, err = s.store.FindActive(s.ctx, s.user, s.resource, expiry.Add(time.Nanosecond))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFindActive_ScopedToUserAndResource() {
	s.add(EffectAllow, PermissionAdmin, nil)

	_, err := s.store.FindActive(s.ctx, id.UserID(uuid.New()), s.resource, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindActive(s.ctx, s.user, id.ResourceID(uuid.New()), s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestCreate_RejectsBadInput() {
	past := s.now.Add(-time.Hour)
	tests := []struct {
		name   string
		mutate func(*AccessOverride)
	}{
		{"unknown permission", func(o *AccessOverride) { o.Permission = "superuser" }},
		{"unknown effect", func(o *AccessOverride) { o.Effect = "maybe" }},
		{"unknown resource type", func(o *AccessOverride) { o.ResourceType = "bucket" }},
		{"expiry in the past", func(o *AccessOverride) { o.ExpiresAt = &past }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			o := &AccessOverride{
				ID:           id.NewOverrideID(),
				UserID:       s.user,
				ResourceID:   s.resource,
				ResourceType: ResourceFile,
				Permission:   PermissionRead,
				Effect:       EffectAllow,
			}
			tt.mutate(o)
			err := s.store.Create(s.ctx, o, s.now)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func (s *InMemoryStoreSuite) TestCreate_ExpiryCheckedAgainstGivenInstant() {
	// The caller's clock decides, not the wall clock: an expiry an hour out
	// is rejected when the supplied instant already lies beyond it.
	expiry := s.now.Add(time.Hour)
	o := &AccessOverride{
		ID:           id.NewOverrideID(),
		UserID:       s.user,
		ResourceID:   s.resource,
		ResourceType: ResourceFile,
		Permission:   PermissionRead,
		Effect:       EffectAllow,
		ExpiresAt:    &expiry,
	}

	err := s.store.Create(s.ctx, o, s.now.Add(2*time.Hour))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.Require().NoError(s.store.Create(s.ctx, o, s.now))
}

func (s *InMemoryStoreSuite) TestRevoke() {
	o := s.add(EffectAllow, PermissionRead, nil)

	s.Require().NoError(s.store.Revoke(s.ctx, o.ID))
	s.ErrorIs(s.store.Revoke(s.ctx, o.ID), sentinel.ErrNotFound)

	_, err := s.store.FindActive(s.ctx, s.user, s.resource, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListForResource() {
	s.add(EffectAllow, PermissionRead, nil)
	s.add(EffectDeny, PermissionRead, nil)

	list, err := s.store.ListForResource(s.ctx, s.resource)
	s.Require().NoError(err)
	s.Len(list, 2)

	other, err := s.store.ListForResource(s.ctx, id.ResourceID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *InMemoryStoreSuite) TestDeleteExpiredOverrides() {
	soon := s.now.Add(time.Minute)
	s.add(EffectAllow, PermissionRead, &soon)
	keep := s.add(EffectAllow, PermissionWrite, nil)

	deleted, err := s.store.DeleteExpiredOverrides(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, deleted)

	got, err := s.store.FindActive(s.ctx, s.user, s.resource, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(keep.ID, got.ID)

	// Idempotent: a second sweep finds nothing.
	deleted, err = s.store.DeleteExpiredOverrides(s.ctx, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Zero(deleted)
}
