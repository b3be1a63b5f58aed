package policy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pandora/internal/clearance"
	"pandora/internal/override"
	"pandora/internal/policy/metrics"
	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
	dErrors "pandora/pkg/domain-errors"
	"pandora/pkg/platform/audit"
	"pandora/pkg/platform/middleware/requesttime"
	"pandora/pkg/requestcontext"
)

// OverridePort is the slice of the override store the engine consults.
// Satisfied by override.Store.
type OverridePort interface {
	FindActive(ctx context.Context, userID id.UserID, resourceID id.ResourceID, now time.Time) (*override.AccessOverride, error)
}

// AuditPublisher emits the mandatory decision trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Engine renders allow/deny decisions. The goal is to keep the rule order
// centralized and testable: override precedence, then the role dual gate,
// then clearance dominance.
type Engine struct {
	overrides OverridePort
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates the policy engine. Panics if required dependencies are nil -
// fail fast at startup. The auditor is required: forensic traceability of
// every decision, including allows, is part of the engine's contract.
func New(overrides OverridePort, auditor AuditPublisher, opts ...Option) *Engine {
	if overrides == nil {
		panic("policy.New: override port is required")
	}
	if auditor == nil {
		panic("policy.New: auditor is required for the decision trail")
	}
	e := &Engine{
		overrides: overrides,
		auditor:   auditor,
		tracer:    otel.Tracer("pandora/policy"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates one (subject, resource, action) triple. Deny outcomes are
// values, not errors; the only error path is a failing override lookup, which
// the caller may retry.
//
// Rule order is semantic, not cosmetic: the override lookup happens before
// the clearance check so a deny override always beats sufficient clearance.
func (e *Engine) Decide(ctx context.Context, subject clearance.Context, resource Resource, action Action) (Decision, error) {
	// Single authoritative timestamp for the whole evaluation: the override
	// activity check and the audit record must not disagree about "now".
	now := requesttime.Now(ctx)
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ObserveDecideLatency(start)
		}
	}()

	ctx, span := e.tracer.Start(ctx, "policy.Decide", trace.WithAttributes(
		attribute.String("resource.id", resource.ID.String()),
		attribute.String("action", string(action)),
	))
	defer span.End()

	if !subject.Valid() || resource.ID.IsNil() || !resource.Type.Valid() || !resource.Clearance.Valid() || !action.Valid() {
		return e.conclude(ctx, span, subject, resource, action, now, Decision{Deny, ReasonInvalidInput}), nil
	}

	decision, err := e.evaluate(ctx, subject, resource, action, now)
	if err != nil {
		span.RecordError(err)
		return Decision{}, err
	}
	return e.conclude(ctx, span, subject, resource, action, now, decision), nil
}

// evaluate applies the ordered rules. Pure of side effects apart from the
// override lookup.
func (e *Engine) evaluate(ctx context.Context, subject clearance.Context, resource Resource, action Action, now time.Time) (Decision, error) {
	active, err := e.overrides.FindActive(ctx, subject.UserID, resource.ID, now)
	switch {
	case err == nil:
		if active.Effect == override.EffectDeny {
			return Decision{Deny, ReasonOverrideDeny}, nil
		}
		if active.Permission.Covers(action.RequiredPermission()) {
			return Decision{Allow, ReasonOverride}, nil
		}
		// An allow override that does not cover the action is ignored; the
		// ordinary rules still apply.
	case errors.Is(err, sentinel.ErrNotFound):
		// No override; not an error.
	default:
		return Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "override lookup failed")
	}

	if action.AdminOnly() && !subject.CanAdminister() {
		return Decision{Deny, ReasonInsufficientRole}, nil
	}

	if !clearance.Dominates(subject.Clearance, resource.Clearance) {
		return Decision{Deny, ReasonInsufficientClearance}, nil
	}

	return Decision{Allow, ReasonClearanceSufficient}, nil
}

// conclude records the decision on the span, the metrics, and the audit
// trail. Emission is mandatory on every path, allows included.
func (e *Engine) conclude(ctx context.Context, span trace.Span, subject clearance.Context, resource Resource, action Action, now time.Time, decision Decision) Decision {
	span.SetAttributes(
		attribute.String("decision.effect", string(decision.Effect)),
		attribute.String("decision.reason", string(decision.Reason)),
	)

	if e.metrics != nil {
		e.metrics.IncrementDecision(string(decision.Effect), string(decision.Reason))
	}

	event := audit.Event{
		UserID:       subject.UserID.String(),
		Action:       string(audit.EventAccessDecided),
		ResourceID:   resource.ID.String(),
		ResourceType: string(resource.Type),
		Timestamp:    now,
		Details: map[string]string{
			audit.DetailDecision:  string(decision.Effect),
			audit.DetailReason:    string(decision.Reason),
			"requested_action":    string(action),
			audit.DetailRequestID: requestcontext.RequestID(ctx),
		},
	}
	if err := e.auditor.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "failed to emit decision audit event",
			"error", err,
			"user_id", subject.UserID,
			"resource_id", resource.ID,
		)
	}
	return decision
}
