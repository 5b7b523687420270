package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-route-bot/internal/conversation"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// RedisStore keeps conversations in Redis as JSON. Every save refreshes the
// key TTL, so Redis evicts abandoned conversations on its own.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) conversationKey(userID string) string {
	return fmt.Sprintf("route-bot:conversation:%s", userID)
}

func (r *RedisStore) Load(ctx context.Context, userID string) (conversation.State, error) {
	key := r.conversationKey(userID)

	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return conversation.State{}, conversation.ErrNoConversation
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation from redis")
		return conversation.State{}, fmt.Errorf("redis get: %w", err)
	}

	var st conversation.State
	if err := json.Unmarshal(b, &st); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal conversation")
		return conversation.State{}, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return st, nil
}

func (r *RedisStore) Save(ctx context.Context, st conversation.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	key := r.conversationKey(st.UserID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save conversation to redis")
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	key := r.conversationKey(userID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation from redis")
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// EvictExpired is a no-op: Redis expires keys itself.
func (r *RedisStore) EvictExpired(context.Context) (int, error) {
	return 0, nil
}

var _ conversation.Store = (*RedisStore)(nil)
