package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists one pending cart per client session. Every mutation returns
// the full recomputed cart so the caller can render or persist the canonical
// state in one step.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Add(ctx context.Context, sessionID string, it Item) (*Cart, error)
	Remove(ctx context.Context, sessionID, productKitID string) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productKitID string, qty int) (*Cart, error)
	Clear(ctx context.Context, sessionID string) (*Cart, error)
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	// serializes read-modify-write per session; a rapid double-click must
	// not lose an update
	locks sync.Map
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: 24 * time.Hour}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *RedisStore) lock(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, it Item) (*Cart, error) {
	defer s.lock(sessionID)()
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(it); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, productKitID string) (*Cart, error) {
	defer s.lock(sessionID)()
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(productKitID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) UpdateQuantity(ctx context.Context, sessionID, productKitID string, qty int) (*Cart, error) {
	defer s.lock(sessionID)()
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(productKitID, qty)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	defer s.lock(sessionID)()
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return nil, fmt.Errorf("redis delete failed: %w", err)
	}
	return New(), nil
}
