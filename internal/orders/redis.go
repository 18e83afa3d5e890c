// Package orders implements the append-only order log on Redis lists.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/drinkcal-bot/server/internal/bot/model"
	errx "github.com/drinkcal-bot/server/internal/core/error"
	logx "github.com/drinkcal-bot/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisOrderRepository stores one list of orders per user. Entries are only
// ever appended; range queries filter and re-sort in memory.
type RedisOrderRepository struct {
	rdb redis.Cmdable
}

func NewRedisOrderRepository(rdb redis.Cmdable) *RedisOrderRepository {
	return &RedisOrderRepository{rdb: rdb}
}

func (r *RedisOrderRepository) orderKey(userID string) string {
	return fmt.Sprintf("orders:%s:log", userID)
}

func (r *RedisOrderRepository) Append(ctx context.Context, o model.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		logx.Error().Err(err).Str("userID", o.UserID).Msg("failed to marshal order")
		return fmt.Errorf("marshal order: %w", err)
	}
	key := r.orderKey(o.UserID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push order to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// QueryRange returns orders whose date falls in [start, end] inclusive,
// newest first. Dates are zero-padded YYYY-MM-DD, so the bound check is a
// plain string comparison.
func (r *RedisOrderRepository) QueryRange(ctx context.Context, userID, start, end string) ([]model.Order, error) {
	key := r.orderKey(userID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load order log from redis")
		return nil, errx.WrapRedis(err)
	}

	var out []model.Order
	for i, raw := range rows {
		var o model.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			logx.Error().Err(err).Str("userID", userID).Int("index", i).Msg("failed to unmarshal order")
			return nil, fmt.Errorf("unmarshal order at index %d: %w", i, err)
		}
		if d := o.Date(); d >= start && d <= end {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

var _ model.OrderRepository = (*RedisOrderRepository)(nil)
