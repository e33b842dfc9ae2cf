package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "dv360trackers:session"

// RedisConfig holds connection settings for RedisStore.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps sessions as JSON strings with a Redis-side TTL, so
// several API replicas can share them.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(id string) string {
	return s.keyPrefix + ":" + id
}

// Get returns the session or domain.ErrSessionNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get %s: %w", id, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &sess, nil
}

// Save writes the session. A zero ttl keeps it until deleted.
func (s *RedisStore) Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set %s: %w", sess.ID, err)
	}
	return nil
}

// Delete removes the session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session: redis del %s: %w", id, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
