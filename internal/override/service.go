package override

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pandora/internal/clearance"
	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/requestcontext"
)

// AuditPublisher is the slice of the audit publisher this service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the override grant/revoke lifecycle. Granting is admin-only
// and dual-gated: the granter needs both the admin role and at least
// CONFIDENTIAL clearance.
type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates the override service. Panics if required dependencies are nil -
// fail fast at startup. The auditor is required: every grant and revocation
// must reach the audit trail.
func New(store Store, auditor AuditPublisher, opts ...Option) *Service {
	if store == nil {
		panic("override.New: store is required")
	}
	if auditor == nil {
		panic("override.New: auditor is required for the audit trail")
	}
	s := &Service{store: store, auditor: auditor, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GrantRequest carries the fields of a new override.
type GrantRequest struct {
	UserID       id.UserID
	ResourceID   id.ResourceID
	ResourceType ResourceType
	Permission   Permission
	Effect       Effect
	ExpiresAt    *time.Time
}

// Grant creates an override on behalf of granter. The store re-validates the
// enumerations and the expiry, so a racing clock cannot slip a stale grant in.
func (s *Service) Grant(ctx context.Context, granter clearance.Context, req GrantRequest) (*AccessOverride, error) {
	if !granter.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid granter context")
	}
	if !granter.CanAdminister() {
		return nil, dErrors.New(dErrors.CodeForbidden, "insufficient permission")
	}
	if req.UserID.IsNil() || req.ResourceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user ID and resource ID are required")
	}

	now := requesttime.Now(ctx)
	o := &AccessOverride{
		ID:           id.NewOverrideID(),
		UserID:       req.UserID,
		ResourceID:   req.ResourceID,
		ResourceType: req.ResourceType,
		Permission:   req.Permission,
		Effect:       req.Effect,
		GrantedBy:    granter.UserID,
		ExpiresAt:    req.ExpiresAt,
		CreatedAt:    now,
	}
	if err := s.store.Create(ctx, o, now); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		UserID:       o.UserID.String(),
		Action:       string(audit.EventOverrideGranted),
		ResourceID:   o.ResourceID.String(),
		ResourceType: string(o.ResourceType),
		Timestamp:    now,
		Details: map[string]string{
			audit.DetailGrantedBy: granter.UserID.String(),
			audit.DetailReason:    string(o.Effect) + ":" + string(o.Permission),
			audit.DetailRequestID: requestcontext.RequestID(ctx),
		},
	})
	return o, nil
}

// Revoke deletes an override. Like granting, revocation is dual-gated.
func (s *Service) Revoke(ctx context.Context, revoker clearance.Context, overrideID id.OverrideID) error {
	if !revoker.CanAdminister() {
		return dErrors.New(dErrors.CodeForbidden, "insufficient permission")
	}
	if err := s.store.Revoke(ctx, overrideID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "override not found")
		}
		return err
	}

	s.emit(ctx, audit.Event{
		UserID:    revoker.UserID.String(),
		Action:    string(audit.EventOverrideRevoked),
		Timestamp: requesttime.Now(ctx),
		Details: map[string]string{
			"override_id":         overrideID.String(),
			audit.DetailRequestID: requestcontext.RequestID(ctx),
		},
	})
	return nil
}

// ListForResource returns all overrides on a resource for administrative review.
func (s *Service) ListForResource(ctx context.Context, viewer clearance.Context, resourceID id.ResourceID) ([]*AccessOverride, error) {
	if !viewer.CanAdminister() {
		return nil, dErrors.New(dErrors.CodeForbidden, "insufficient permission")
	}
	return s.store.ListForResource(ctx, resourceID)
}

// emit is best-effort: a full audit buffer is logged, not surfaced, because
// grants must not fail after the store mutation has committed.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit override audit event",
			"error", err,
			"action", event.Action,
		)
	}
}
