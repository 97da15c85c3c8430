// internal/infrastructure/database/redis/store.go
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// Store implements keyval.Store on top of Redis. Every write refreshes the
// TTL so an active device keeps its state alive.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed keyval store
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", keyval.ErrNotFound
	} else if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a key-value pair with the configured state TTL
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

// Delete removes one key
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Exists checks if key exists
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	return count > 0, err
}

var _ keyval.Store = (*Store)(nil)
