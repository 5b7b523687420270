package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-route-bot/internal/conversation"
)

func TestRedisStoreKey(t *testing.T) {
	s := NewRedisStore(nil, time.Minute)
	if got := s.conversationKey("42"); got != "route-bot:conversation:42" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedisStore(rdb, time.Minute)
	_, err := s.Load(context.Background(), "u1")
	if err == nil || errors.Is(err, conversation.ErrNoConversation) {
		t.Errorf("expected a connection error, got %v", err)
	}
}
