// Package session implements the server-side session store backed by Redis.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"authpal/config"
	"authpal/internal/domain/entity"
	"authpal/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
)

// sessionRecord is the JSON blob stored under each session key.
type sessionRecord struct {
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RedisStore keeps sessions in Redis keyed by an opaque id, with a per-user
// index set so all of a user's sessions can be listed or revoked together.
type RedisStore struct {
	client  redis.UniversalClient
	ttl     time.Duration
	rolling bool
	now     func() time.Time
}

// NewRedisStore builds the session store from configuration.
func NewRedisStore(client redis.UniversalClient, cfg *config.Config) service.SessionStore {
	ttl := config.DefaultSessionTTL
	rolling := true
	if cfg != nil && cfg.Session != nil {
		if cfg.Session.TTL > 0 {
			ttl = cfg.Session.TTL
		}
		rolling = cfg.Session.Rolling
	}

	return &RedisStore{
		client:  client,
		ttl:     ttl,
		rolling: rolling,
		now:     time.Now,
	}
}

// NewRedisClient creates the underlying Redis connection.
func NewRedisClient(cfg *config.Config) (redis.UniversalClient, error) {
	if cfg == nil || cfg.Redis == nil {
		return nil, errors.New("redis configuration missing")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}

	return client, nil
}

// Create establishes a new session. The id carries 256 bits of entropy and is
// the only credential the client ever holds.
func (s *RedisStore) Create(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	idBytes := make([]byte, 32)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, errors.Wrap(err, "generate session id")
	}
	id := hex.EncodeToString(idBytes)

	now := s.now()
	record := sessionRecord{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "marshal session")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+id, payload, s.ttl)
	pipe.SAdd(ctx, userIndexPrefix+userID.String(), id)
	// The index must outlive its longest session.
	pipe.Expire(ctx, userIndexPrefix+userID.String(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "store session")
	}

	return &entity.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Resolve looks up a session by id, refreshing its TTL when rolling sessions
// are enabled.
func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (*entity.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, errors.Wrap(err, "unmarshal session")
	}

	now := s.now()
	if !now.Before(record.ExpiresAt) {
		// Redis TTL should have removed it already; treat as gone.
		_ = s.Destroy(ctx, sessionID)

		return nil, service.ErrSessionNotFound
	}

	if s.rolling {
		record.ExpiresAt = now.Add(s.ttl)
		refreshed, err := json.Marshal(record)
		if err != nil {
			return nil, errors.Wrap(err, "marshal session")
		}

		pipe := s.client.TxPipeline()
		pipe.Set(ctx, sessionKeyPrefix+sessionID, refreshed, s.ttl)
		pipe.Expire(ctx, userIndexPrefix+record.UserID.String(), s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, errors.Wrap(err, "refresh session")
		}
	}

	return &entity.Session{
		ID:        sessionID,
		UserID:    record.UserID,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Destroy removes a session. Destroying an unknown id is a no-op.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "get session")
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err == nil {
		pipe.SRem(ctx, userIndexPrefix+record.UserID.String(), sessionID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "delete session")
	}

	return nil
}

// ListByUserID returns the user's live sessions, pruning index entries whose
// session keys have already expired.
func (s *RedisStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	ids, err := s.client.SMembers(ctx, userIndexPrefix+userID.String()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list session index")
	}

	sessions := make([]*entity.Session, 0, len(ids))
	var stale []any
	for _, id := range ids {
		payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
		if errors.Is(err, redis.Nil) {
			stale = append(stale, id)

			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "get session")
		}

		var record sessionRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			stale = append(stale, id)

			continue
		}

		sessions = append(sessions, &entity.Session{
			ID:        id,
			UserID:    record.UserID,
			CreatedAt: record.CreatedAt,
			ExpiresAt: record.ExpiresAt,
		})
	}

	if len(stale) > 0 {
		_ = s.client.SRem(ctx, userIndexPrefix+userID.String(), stale...).Err()
	}

	return sessions, nil
}

// DestroyAllForUser removes every session belonging to the user except the
// spared id, returning the number destroyed.
func (s *RedisStore) DestroyAllForUser(ctx context.Context, userID uuid.UUID, spare string) (int, error) {
	ids, err := s.client.SMembers(ctx, userIndexPrefix+userID.String()).Result()
	if err != nil {
		return 0, errors.Wrap(err, "list session index")
	}

	destroyed := 0
	for _, id := range ids {
		if id == spare {
			continue
		}

		removed, err := s.client.Del(ctx, sessionKeyPrefix+id).Result()
		if err != nil {
			return destroyed, errors.Wrap(err, "delete session")
		}
		if err := s.client.SRem(ctx, userIndexPrefix+userID.String(), id).Err(); err != nil {
			return destroyed, errors.Wrap(err, "prune session index")
		}
		if removed > 0 {
			destroyed++
		}
	}

	return destroyed, nil
}
