package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/tillpoint-backend/pkg/redis"
)

// Store persists carts between terminal requests.
type Store interface {
	Load(ctx context.Context, companyID int64, sessionID string) (*Cart, error)
	Save(ctx context.Context, companyID int64, sessionID string, cart *Cart) error
	Clear(ctx context.Context, companyID int64, sessionID string) error
}

type storeClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(companyID int64, sessionID string) string
}

type redisStore struct {
	client storeClient
	ttl    time.Duration
}

// NewRedisStore builds a redis-backed cart store. The TTL slides on
// every read and write so an active till never loses its cart.
func NewRedisStore(client *redis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return newStore(client, ttl)
}

func newStore(client storeClient, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, companyID int64, sessionID string) (*Cart, error) {
	key := s.client.CartKey(companyID, sessionID)
	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}

	// Reads count as activity too; a till that only looks at its cart
	// keeps the session alive. A failed touch must not fail the read.
	_ = s.client.Expire(ctx, key, s.ttl)

	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, companyID int64, sessionID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(companyID, sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, companyID int64, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(companyID, sessionID)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
