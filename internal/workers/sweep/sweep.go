// Package sweep runs the periodic expiry pass: expired overrides are deleted
// and lapsed shares are transitioned to Expired.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"pandora/internal/p2pshare"
	"pandora/internal/workers/sweep/metrics"
	"pandora/pkg/platform/middleware/requesttime"
)

// defaultBatchSize caps the number of lapsed shares handled per tick so one
// enormous backlog cannot starve the next tick.
const defaultBatchSize = 500

// Result contains the results of a sweep run.
type Result struct {
	OverridesDeleted int
	SharesExpired    int
	ItemFailures     int
	Duration         time.Duration
}

// OverrideStore is the slice of the override store the sweep needs.
type OverrideStore interface {
	DeleteExpiredOverrides(ctx context.Context, now time.Time) (int, error)
}

// ShareLifecycle is the slice of the share service the sweep needs. Expire
// reports false when a concurrent retrieve or cancel won the transition.
type ShareLifecycle interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*p2pshare.P2PShare, error)
	Expire(ctx context.Context, share *p2pshare.P2PShare) (bool, error)
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithBatchSize(size int) Option {
	return func(s *Scheduler) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// Scheduler drives the expiry sweeps on a fixed interval. Ticks are
// serialized: RunOnce completes before the next tick is consumed, so two
// sweeps never overlap.
type Scheduler struct {
	overrides OverrideStore
	shares    ShareLifecycle
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	metrics   *metrics.Metrics
}

func New(overrides OverrideStore, shares ShareLifecycle, opts ...Option) *Scheduler {
	if overrides == nil {
		panic("sweep.New: override store is required")
	}
	if shares == nil {
		panic("sweep.New: share lifecycle is required")
	}
	s := &Scheduler{
		overrides: overrides,
		shares:    shares,
		logger:    slog.Default(),
		interval:  time.Hour,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			res, err := s.RunOnce(ctx)
			duration := time.Since(start)

			if err != nil {
				s.logger.Error("expiry_sweep_failed",
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
				if s.metrics != nil {
					s.metrics.Runs.WithLabelValues("error").Inc()
					s.metrics.Duration.Observe(duration.Seconds())
				}
				continue
			}

			res.Duration = duration
			s.logger.Info("expiry_sweep_completed",
				"overrides_deleted", res.OverridesDeleted,
				"shares_expired", res.SharesExpired,
				"item_failures", res.ItemFailures,
				"duration_ms", duration.Milliseconds(),
			)

			if s.metrics != nil {
				s.metrics.OverridesDeleted.Add(float64(res.OverridesDeleted))
				s.metrics.SharesExpired.Add(float64(res.SharesExpired))
				s.metrics.Runs.WithLabelValues("success").Inc()
				s.metrics.Duration.Observe(duration.Seconds())
			}

		case <-ctx.Done():
			s.logger.Info("expiry sweep worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. The override and share sweeps touch
// disjoint data, so they run in parallel. A per-item share failure is
// counted and logged, never fatal; only a failure to enumerate the work
// aborts the run.
func (s *Scheduler) RunOnce(ctx context.Context) (*Result, error) {
	now := time.Now()
	ctx = requesttime.WithTime(ctx, now)
	res := &Result{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deleted, err := s.overrides.DeleteExpiredOverrides(gctx, now)
		if err != nil {
			return err
		}
		res.OverridesDeleted = deleted
		return nil
	})

	g.Go(func() error {
		lapsed, err := s.shares.ListExpired(gctx, now, s.batchSize)
		if err != nil {
			return err
		}
		for _, share := range lapsed {
			won, err := s.shares.Expire(gctx, share)
			if err != nil {
				res.ItemFailures++
				if s.metrics != nil {
					s.metrics.ItemFailures.Inc()
				}
				s.logger.WarnContext(gctx, "failed to expire share",
					"error", err,
					"share_id", share.ID,
				)
				continue
			}
			if !won {
				// A live retrieve or cancel got there first.
				if s.metrics != nil {
					s.metrics.TransitionsLost.Inc()
				}
				continue
			}
			res.SharesExpired++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
