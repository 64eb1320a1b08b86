package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// RedisSessionStore implements domain.SessionStore on Redis, for deployments
// where wizard progress must survive a process restart or be shared across
// replicas. Sessions are JSON blobs under a per-chat key with a TTL, so an
// abandoned wizard eventually evaporates.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "wizard:",
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) key(chatID int64) string {
	return s.prefix + strconv.FormatInt(chatID, 10)
}

// Get implements domain.SessionStore
func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(chatID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Put implements domain.SessionStore
func (s *RedisSessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.ChatID), data, s.ttl).Err()
}

// Delete implements domain.SessionStore
func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.key(chatID)).Err()
}
