package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLSubscription = 1 * time.Minute // subscription status consulted on every request
	TTLConfig       = 2 * time.Minute
	TTLDefault      = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixSubscription = "subscription:"
	PrefixConfig       = "config:"
)

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = errors.New("cache miss")

// Service is the Redis cache interface used by the enforcement path
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetSubscription(ctx context.Context, tenantID string, dest interface{}) error
	SetSubscription(ctx context.Context, tenantID string, value interface{}) error
	InvalidateSubscription(ctx context.Context, tenantID string) error
}

type service struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *service) GetSubscription(ctx context.Context, tenantID string, dest interface{}) error {
	return s.Get(ctx, PrefixSubscription+tenantID, dest)
}

func (s *service) SetSubscription(ctx context.Context, tenantID string, value interface{}) error {
	return s.Set(ctx, PrefixSubscription+tenantID, value, TTLSubscription)
}

func (s *service) InvalidateSubscription(ctx context.Context, tenantID string) error {
	return s.Delete(ctx, PrefixSubscription+tenantID)
}
