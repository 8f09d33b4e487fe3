// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisSlot struct {
	client redis.UniversalClient
}

func NewRedisSlot(client redis.UniversalClient) *RedisSlot {
	return &RedisSlot{client: client}
}

func (s *RedisSlot) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	return data, nil
}

func (s *RedisSlot) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in redis: %w", err)
	}
	return nil
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemorySlot keeps blobs in process memory. Used by the CLI and tests.
type MemorySlot struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemorySlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	if !ok || (!e.expiresAt.IsZero() && s.now().After(e.expiresAt)) {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), e.value...), nil
}

func (s *MemorySlot) Save(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *MemorySlot) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
