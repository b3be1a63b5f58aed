package audit

import (
	"context"

	dErrors "pandora/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")
)

// Store is the sink contract: append-only, queryable by subject for forensic
// review. Production uses the Kafka sink plus the auditsink consumer; tests
// and single-node deployments use the in-memory store.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}
