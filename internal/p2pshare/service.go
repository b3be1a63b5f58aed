package p2pshare

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"pandora/internal/clearance"
	"pandora/internal/p2pshare/metrics"
	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/requestcontext"
	"pandora/pkg/secrets"
)

// FileResolver maps a file ID to its storage location. The resolution happens
// before the consume transition so a resolver failure never burns a share.
type FileResolver interface {
	Resolve(ctx context.Context, fileID id.FileID) (FilePath, error)
}

// AuditPublisher is the slice of the audit publisher this service needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the share lifecycle. Authorization to share a file at all is
// the route layer's concern; this service enforces the lifecycle rules and
// the retrieval grant.
type Service struct {
	store    Store
	resolver FileResolver
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates the share service. Panics if required dependencies are nil -
// fail fast at startup.
func New(store Store, resolver FileResolver, auditor AuditPublisher, opts ...Option) *Service {
	if store == nil {
		panic("p2pshare.New: store is required")
	}
	if resolver == nil {
		panic("p2pshare.New: file resolver is required")
	}
	if auditor == nil {
		panic("p2pshare.New: auditor is required for the audit trail")
	}
	s := &Service{store: store, resolver: resolver, auditor: auditor, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest carries the fields of a new share.
type CreateRequest struct {
	FileID      id.FileID
	RecipientID id.UserID
	ViewOnce    bool
	ExpiresAt   *time.Time
}

// Create mints a new Active share and its invite secret. The secret is
// returned exactly once; only its bcrypt hash is persisted.
func (s *Service) Create(ctx context.Context, creator clearance.Context, req CreateRequest) (*P2PShare, string, error) {
	if !creator.Valid() {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "invalid creator context")
	}
	if req.FileID.IsNil() || req.RecipientID.IsNil() {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "file ID and recipient ID are required")
	}
	now := requesttime.Now(ctx)
	if req.ExpiresAt != nil && req.ExpiresAt.Before(now) {
		return nil, "", dErrors.New(dErrors.CodeValidation, "expiry is in the past")
	}

	secret, err := secrets.Generate()
	if err != nil {
		return nil, "", err
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return nil, "", err
	}

	share := &P2PShare{
		ID:          id.NewShareID(),
		FileID:      req.FileID,
		RecipientID: req.RecipientID,
		CreatedBy:   creator.UserID,
		ViewOnce:    req.ViewOnce,
		InviteHash:  hash,
		State:       StateActive,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   now,
	}
	if err := s.store.Create(ctx, share, now); err != nil {
		return nil, "", err
	}

	details := map[string]string{
		audit.DetailRecipient: share.RecipientID.String(),
		audit.DetailViewOnce:  strconv.FormatBool(share.ViewOnce),
		audit.DetailRequestID: requestcontext.RequestID(ctx),
	}
	if share.ExpiresAt != nil {
		details[audit.DetailExpiresAt] = share.ExpiresAt.Format(time.RFC3339)
	}
	s.emit(ctx, audit.Event{
		UserID:       creator.UserID.String(),
		Action:       string(audit.EventShareCreated),
		ResourceID:   share.ID.String(),
		ResourceType: "p2p_share",
		Timestamp:    now,
		Details:      details,
	})
	return share, secret, nil
}

// RetrieveViewOnce releases the shared file's path at most once. The caller
// proves entitlement through the grant: matching recipient identity or the
// invite secret. Anything short of a consumable share answers NotFound so
// probing cannot distinguish missing, spent, lapsed, and foreign shares.
func (s *Service) RetrieveViewOnce(ctx context.Context, shareID id.ShareID, grant RetrievalGrant) (FilePath, error) {
	now := requesttime.Now(ctx)
	share, err := s.store.FindByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", s.notConsumable(ctx, "missing")
		}
		return "", err
	}
	if !share.ViewOnce || !share.ActiveAt(now) {
		return "", s.notConsumable(ctx, "not_consumable")
	}
	if err := s.authorizeRetrieval(share, grant); err != nil {
		s.incrementConsumption("unauthorized")
		return "", err
	}

	path, err := s.resolver.Resolve(ctx, share.FileID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "could not resolve file")
	}

	// The single conditional transition. Losing here means a concurrent
	// retrieve, cancel, or sweep got there first.
	won, err := s.store.Transition(ctx, shareID, StateConsumed)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", s.notConsumable(ctx, "missing")
		}
		return "", err
	}
	if !won {
		return "", s.notConsumable(ctx, "lost_race")
	}

	s.incrementConsumption("consumed")
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(StateConsumed))
	}
	s.emit(ctx, audit.Event{
		UserID:       share.RecipientID.String(),
		Action:       string(audit.EventShareConsumed),
		ResourceID:   share.ID.String(),
		ResourceType: "p2p_share",
		Timestamp:    now,
		Details: map[string]string{
			audit.DetailRequestID: requestcontext.RequestID(ctx),
		},
	})
	return path, nil
}

// Cancel moves an Active share to Cancelled. Only the creator or an
// administrator may cancel. Returns false when the share was already
// terminal; cancelling twice is not an error.
func (s *Service) Cancel(ctx context.Context, shareID id.ShareID, caller clearance.Context) (bool, error) {
	share, err := s.store.FindByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, dErrors.New(dErrors.CodeNotFound, "share not found")
		}
		return false, err
	}
	if share.CreatedBy != caller.UserID && !caller.CanAdminister() {
		return false, dErrors.New(dErrors.CodeForbidden, "insufficient permission")
	}

	won, err := s.store.Transition(ctx, shareID, StateCancelled)
	if err != nil || !won {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(StateCancelled))
	}
	s.emit(ctx, audit.Event{
		UserID:       caller.UserID.String(),
		Action:       string(audit.EventShareCancelled),
		ResourceID:   share.ID.String(),
		ResourceType: "p2p_share",
		Timestamp:    requesttime.Now(ctx),
		Details: map[string]string{
			audit.DetailRequestID: requestcontext.RequestID(ctx),
		},
	})
	return true, nil
}

// Expire moves a lapsed Active share to Expired. Called by the sweep worker;
// losing the transition race to a live retrieve or cancel is a no-op.
func (s *Service) Expire(ctx context.Context, share *P2PShare) (bool, error) {
	won, err := s.store.Transition(ctx, share.ID, StateExpired)
	if err != nil || !won {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(StateExpired))
	}
	s.emit(ctx, audit.Event{
		UserID:       share.CreatedBy.String(),
		Action:       string(audit.EventShareExpired),
		ResourceID:   share.ID.String(),
		ResourceType: "p2p_share",
		Timestamp:    requesttime.Now(ctx),
	})
	return true, nil
}

// ListExpired surfaces the store's expiry backlog for the sweep worker.
func (s *Service) ListExpired(ctx context.Context, now time.Time, limit int) ([]*P2PShare, error) {
	return s.store.ListExpired(ctx, now, limit)
}

// authorizeRetrieval checks the grant. Identity wins when present; otherwise
// the invite secret is verified against the stored hash.
func (s *Service) authorizeRetrieval(share *P2PShare, grant RetrievalGrant) error {
	if !grant.CallerID.IsNil() && grant.CallerID == share.RecipientID {
		return nil
	}
	if grant.InviteSecret != "" {
		if err := secrets.Verify(grant.InviteSecret, share.InviteHash); err == nil {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "insufficient permission")
}

// notConsumable is the uniform NotFound answer for every non-consumable
// share, counted by cause for operators.
func (s *Service) notConsumable(_ context.Context, cause string) error {
	s.incrementConsumption(cause)
	return dErrors.New(dErrors.CodeNotFound, "share not found")
}

func (s *Service) incrementConsumption(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementConsumption(outcome)
	}
}

// emit is best-effort: transitions must not fail after the store has
// committed them.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit share audit event",
			"error", err,
			"action", event.Action,
		)
	}
}
