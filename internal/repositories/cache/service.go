// Package cache provides the Redis-backed read cache used by the balance
// engine. Values are JSON-encoded; a miss is reported as ErrCacheMiss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// Service wraps a Redis client with JSON encoding and a default TTL.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a cache service with the given default TTL.
func NewService(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

// Get decodes the cached value into dest, or returns ErrCacheMiss.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set stores a value under the default TTL.
func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, s.ttl).Err()
}

// Delete removes keys; missing keys are not an error.
func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close releases the underlying connection.
func (s *Service) Close() error {
	return s.client.Close()
}

// MerchantBalanceKey is the cache key for a merchant balance snapshot.
func MerchantBalanceKey(merchantID uint) string {
	return fmt.Sprintf("balance:merchant:%d", merchantID)
}
