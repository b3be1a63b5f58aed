package p2pshare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pandora/internal/sentinel"
	id "pandora/pkg/domain"
)

const (
	shareKeyPrefix = "p2pshare:"

	// expiryIndexKey is a sorted set of active share IDs scored by expiry,
	// so the sweep can find lapsed shares without scanning.
	expiryIndexKey = "p2pshare:by_expiry"

	// terminalShareTTL keeps consumed/cancelled/expired shares around long
	// enough for clients to see a meaningful state before the key lapses.
	terminalShareTTL = 24 * time.Hour
)

// createScript writes the share and its expiry-index entry in one atomic
// step, so a crash between the two can never leave an expiring share
// invisible to the sweep. Returns 1 on success, 0 when the key exists.
var createScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then return 0 end
	if tonumber(ARGV[2]) > 0 then
		redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
	else
		redis.call('SET', KEYS[1], ARGV[1])
	end
	if ARGV[3] ~= '' then
		redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
	end
	return 1
`)

// transitionScript is the compare-and-swap at the heart of the view-once
// guarantee: read state, flip it only if still active, drop the expiry index
// entry, all inside one atomic script. Returns 1 on success, 0 when the
// share exists but is no longer active, -1 when the key is gone.
var transitionScript = redis.NewScript(`
	local raw = redis.call('GET', KEYS[1])
	if not raw then return -1 end
	local share = cjson.decode(raw)
	if share.state ~= 'active' then return 0 end
	share.state = ARGV[1]
	redis.call('SET', KEYS[1], cjson.encode(share), 'EX', tonumber(ARGV[2]))
	redis.call('ZREM', KEYS[2], ARGV[3])
	return 1
`)

// shareJSON is the JSON-serializable representation of a P2PShare.
//
// Timestamps travel as decimal Unix-nano strings. The transition script
// round-trips the document through cjson, whose numbers are doubles and
// cannot hold a full int64; strings pass through untouched.
type shareJSON struct {
	ID          string `json:"id"`
	FileID      string `json:"file_id"`
	RecipientID string `json:"recipient_id"`
	CreatedBy   string `json:"created_by"`
	ViewOnce    bool   `json:"view_once"`
	InviteHash  string `json:"invite_hash"`
	State       string `json:"state"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func shareToJSON(p *P2PShare) *shareJSON {
	j := &shareJSON{
		ID:          uuid.UUID(p.ID).String(),
		FileID:      uuid.UUID(p.FileID).String(),
		RecipientID: uuid.UUID(p.RecipientID).String(),
		CreatedBy:   uuid.UUID(p.CreatedBy).String(),
		ViewOnce:    p.ViewOnce,
		InviteHash:  p.InviteHash,
		State:       string(p.State),
		CreatedAt:   strconv.FormatInt(p.CreatedAt.UnixNano(), 10),
	}
	if p.ExpiresAt != nil {
		j.ExpiresAt = strconv.FormatInt(p.ExpiresAt.UnixNano(), 10)
	}
	return j
}

func shareFromJSON(j *shareJSON) (*P2PShare, error) {
	shareID, err := uuid.Parse(j.ID)
	if err != nil {
		return nil, fmt.Errorf("parse share id: %w", err)
	}
	fileID, err := uuid.Parse(j.FileID)
	if err != nil {
		return nil, fmt.Errorf("parse file id: %w", err)
	}
	recipientID, err := uuid.Parse(j.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("parse recipient id: %w", err)
	}
	createdBy, err := uuid.Parse(j.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("parse created by: %w", err)
	}
	createdAt, err := strconv.ParseInt(j.CreatedAt, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse created at: %w", err)
	}

	p := &P2PShare{
		ID:          id.ShareID(shareID),
		FileID:      id.FileID(fileID),
		RecipientID: id.UserID(recipientID),
		CreatedBy:   id.UserID(createdBy),
		ViewOnce:    j.ViewOnce,
		InviteHash:  j.InviteHash,
		State:       State(j.State),
		CreatedAt:   time.Unix(0, createdAt),
	}
	if j.ExpiresAt != "" {
		expiresAt, err := strconv.ParseInt(j.ExpiresAt, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse expires at: %w", err)
		}
		t := time.Unix(0, expiresAt)
		p.ExpiresAt = &t
	}
	return p, nil
}

// RedisStore keeps shares in Redis. Suited to the ephemeral nature of
// peer-to-peer shares: expiry doubles as storage TTL, and the Lua transition
// script provides the same conditional-update guarantee as the SQL store.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed share store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func shareKey(shareID id.ShareID) string {
	return shareKeyPrefix + uuid.UUID(shareID).String()
}

// storageTTL is the key lifetime: shares with an expiry live a day past it
// so lapsed shares are observable until the sweep marks them Expired.
func storageTTL(share *P2PShare, now time.Time) time.Duration {
	if share.ExpiresAt == nil {
		return 0 // no TTL
	}
	return share.ExpiresAt.Sub(now) + terminalShareTTL
}

func (s *RedisStore) Create(ctx context.Context, share *P2PShare, now time.Time) error {
	if err := validateShare(share, now); err != nil {
		return err
	}
	data, err := json.Marshal(shareToJSON(share))
	if err != nil {
		return fmt.Errorf("marshal share: %w", err)
	}

	score := ""
	if share.ExpiresAt != nil {
		score = strconv.FormatInt(share.ExpiresAt.UnixNano(), 10)
	}
	res, err := createScript.Run(ctx, s.client,
		[]string{shareKey(share.ID), expiryIndexKey},
		string(data), int(storageTTL(share, now).Seconds()), score, uuid.UUID(share.ID).String(),
	).Int()
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}
	if res == 0 {
		return fmt.Errorf("share already exists: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, shareID id.ShareID) (*P2PShare, error) {
	data, err := s.client.Get(ctx, shareKey(shareID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("share not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find share by id: %w", err)
	}

	var j shareJSON
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		return nil, fmt.Errorf("unmarshal share: %w", err)
	}
	return shareFromJSON(&j)
}

func (s *RedisStore) Transition(ctx context.Context, shareID id.ShareID, to State) (bool, error) {
	if to == StateActive || !to.Valid() {
		return false, fmt.Errorf("transition target must be terminal: %w", sentinel.ErrInvalidInput)
	}
	idStr := uuid.UUID(shareID).String()
	res, err := transitionScript.Run(ctx, s.client,
		[]string{shareKey(shareID), expiryIndexKey},
		string(to), int(terminalShareTTL.Seconds()), idStr,
	).Int()
	if err != nil {
		return false, fmt.Errorf("transition share: %w", err)
	}
	switch res {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("share not found: %w", sentinel.ErrNotFound)
	}
}

func (s *RedisStore) ListExpired(ctx context.Context, now time.Time, limit int) ([]*P2PShare, error) {
	ids, err := s.client.ZRangeByScore(ctx, expiryIndexKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("(%d", now.UnixNano()),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list expired share ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, idStr := range ids {
		cmds[i] = pipe.Get(ctx, shareKeyPrefix+idStr)
	}
	_, _ = pipe.Exec(ctx) // individual misses handled below

	out := make([]*P2PShare, 0, len(ids))
	var orphaned []any
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			// Key lapsed under the index entry; clean it up.
			orphaned = append(orphaned, ids[i])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load expired share: %w", err)
		}
		var j shareJSON
		if err := json.Unmarshal([]byte(data), &j); err != nil {
			return nil, fmt.Errorf("unmarshal expired share: %w", err)
		}
		share, err := shareFromJSON(&j)
		if err != nil {
			return nil, err
		}
		if share.State == StateActive {
			out = append(out, share)
		}
	}
	if len(orphaned) > 0 {
		_ = s.client.ZRem(ctx, expiryIndexKey, orphaned...).Err()
	}
	return out, nil
}
