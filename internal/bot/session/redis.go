package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/drinkcal-bot/server/internal/bot/model"
	errx "github.com/drinkcal-bot/server/internal/core/error"
	logx "github.com/drinkcal-bot/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository keeps one dialogue session per user in Redis.
// TTL gives abandoned conversations an explicit idle expiry: the key is
// refreshed on every save, and an expired session reads back as Idle.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(userID string) string {
	return fmt.Sprintf("session:%s:state", userID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, userID string) (model.Session, error) {
	key := r.sessionKey(userID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.IdleSession(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		return model.Session{}, errx.WrapRedis(err)
	}

	var s model.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to unmarshal session")
		return model.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, userID string, s model.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to marshal session")
		return fmt.Errorf("marshal session: %w", err)
	}
	key := r.sessionKey(userID)

	// SET with TTL both stores the new phase and extends the idle expiry.
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Clear(ctx context.Context, userID string) error {
	key := r.sessionKey(userID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
