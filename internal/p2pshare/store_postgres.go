package p2pshare

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

// PostgresStore persists shares in PostgreSQL. Transition is a conditional
// UPDATE guarded on state = 'active'; the row count tells the caller whether
// it won the race. The (state, expires_at) index serves the sweep query.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed share store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, share *P2PShare, now time.Time) error {
	if err := validateShare(share, now); err != nil {
		return err
	}
	query := `
		INSERT INTO p2p_shares (id, file_id, recipient_id, created_by, view_once, invite_hash, state, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(share.ID),
		uuid.UUID(share.FileID),
		uuid.UUID(share.RecipientID),
		uuid.UUID(share.CreatedBy),
		share.ViewOnce,
		share.InviteHash,
		string(share.State),
		nullTime(share.ExpiresAt),
		share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, shareID id.ShareID) (*P2PShare, error) {
	query := `
		SELECT id, file_id, recipient_id, created_by, view_once, invite_hash, state, expires_at, created_at
		FROM p2p_shares
		WHERE id = $1
	`
	share, err := scanShare(s.db.QueryRowContext(ctx, query, uuid.UUID(shareID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("share not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find share by id: %w", err)
	}
	return share, nil
}

func (s *PostgresStore) Transition(ctx context.Context, shareID id.ShareID, to State) (bool, error) {
	if to == StateActive || !to.Valid() {
		return false, fmt.Errorf("transition target must be terminal: %w", sentinel.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE p2p_shares SET state = $1 WHERE id = $2 AND state = 'active'`,
		string(to), uuid.UUID(shareID),
	)
	if err != nil {
		return false, fmt.Errorf("transition share: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition share rows: %w", err)
	}
	if rows > 0 {
		return true, nil
	}
	// Distinguish "lost the race" from "never existed".
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM p2p_shares WHERE id = $1)`, uuid.UUID(shareID),
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("transition share exists check: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("share not found: %w", sentinel.ErrNotFound)
	}
	return false, nil
}

func (s *PostgresStore) ListExpired(ctx context.Context, now time.Time, limit int) ([]*P2PShare, error) {
	query := `
		SELECT id, file_id, recipient_id, created_by, view_once, invite_hash, state, expires_at, created_at
		FROM p2p_shares
		WHERE state = 'active' AND expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired shares: %w", err)
	}
	defer rows.Close()

	var out []*P2PShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		out = append(out, share)
	}
	return out, rows.Err()
}

type shareRow interface {
	Scan(dest ...any) error
}

func scanShare(row shareRow) (*P2PShare, error) {
	var share P2PShare
	var shareID, fileID, recipientID, createdBy uuid.UUID
	var state string
	var expiresAt sql.NullTime
	if err := row.Scan(&shareID, &fileID, &recipientID, &createdBy, &share.ViewOnce, &share.InviteHash, &state, &expiresAt, &share.CreatedAt); err != nil {
		return nil, err
	}
	share.ID = id.ShareID(shareID)
	share.FileID = id.FileID(fileID)
	share.RecipientID = id.UserID(recipientID)
	share.CreatedBy = id.UserID(createdBy)
	share.State = State(state)
	if expiresAt.Valid {
		share.ExpiresAt = &expiresAt.Time
	}
	return &share, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
