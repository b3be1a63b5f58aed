package override

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
)

// PostgresStore persists overrides in PostgreSQL. The table is keyed by
// (user_id, resource_id, permission); FindActive resolves precedence in SQL
// so the engine never sees more than one row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed override store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, o *AccessOverride, now time.Time) error {
	if err := validateOverride(o, now); err != nil {
		return err
	}
	query := `
		INSERT INTO access_overrides (id, user_id, resource_id, resource_type, permission, effect, granted_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(o.ID),
		uuid.UUID(o.UserID),
		uuid.UUID(o.ResourceID),
		string(o.ResourceType),
		string(o.Permission),
		string(o.Effect),
		uuid.UUID(o.GrantedBy),
		nullTime(o.ExpiresAt),
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create override: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindActive(ctx context.Context, userID id.UserID, resourceID id.ResourceID, now time.Time) (*AccessOverride, error) {
	// Deny first, then the most permissive allow.
	query := `
		SELECT id, user_id, resource_id, resource_type, permission, effect, granted_by, expires_at, created_at
		FROM access_overrides
		WHERE user_id = $1 AND resource_id = $2 AND (expires_at IS NULL OR expires_at >= $3)
		ORDER BY (effect = 'deny') DESC,
			CASE permission WHEN 'admin' THEN 3 WHEN 'write' THEN 2 ELSE 1 END DESC
		LIMIT 1
	`
	o, err := scanOverride(s.db.QueryRowContext(ctx, query, uuid.UUID(userID), uuid.UUID(resourceID), now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("override not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find active override: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, overrideID id.OverrideID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM access_overrides WHERE id = $1`, uuid.UUID(overrideID))
	if err != nil {
		return fmt.Errorf("revoke override: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke override rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListForResource(ctx context.Context, resourceID id.ResourceID) ([]*AccessOverride, error) {
	query := `
		SELECT id, user_id, resource_id, resource_type, permission, effect, granted_by, expires_at, created_at
		FROM access_overrides
		WHERE resource_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(resourceID))
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []*AccessOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteExpiredOverrides(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM access_overrides WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired overrides: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired overrides rows: %w", err)
	}
	return int(rows), nil
}

type overrideRow interface {
	Scan(dest ...any) error
}

func scanOverride(row overrideRow) (*AccessOverride, error) {
	var o AccessOverride
	var overrideID, userID, resourceID, grantedBy uuid.UUID
	var resourceType, permission, effect string
	var expiresAt sql.NullTime
	if err := row.Scan(&overrideID, &userID, &resourceID, &resourceType, &permission, &effect, &grantedBy, &expiresAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ID = id.OverrideID(overrideID)
	o.UserID = id.UserID(userID)
	o.ResourceID = id.ResourceID(resourceID)
	o.GrantedBy = id.UserID(grantedBy)
	o.ResourceType = ResourceType(resourceType)
	o.Permission = Permission(permission)
	o.Effect = Effect(effect)
	if expiresAt.Valid {
		o.ExpiresAt = &expiresAt.Time
	}
	return &o, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
