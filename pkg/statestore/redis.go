package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps JSON encoded records under prefix+key.
type RedisStore[S any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed store. A ttl of zero keeps keys until
// they are deleted.
func NewRedisStore[S any](client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore[S] {
	return &RedisStore[S]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Save sets the prefixed key, expiring it after the store TTL when set.
func (s *RedisStore[S]) Save(ctx context.Context, key string, state S) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(newRecord(key, state))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Load gets the prefixed key. A missing key wraps ErrNotFound.
func (s *RedisStore[S]) Load(ctx context.Context, key string) (S, error) {
	var zero S
	if key == "" {
		return zero, ErrEmptyKey
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return zero, errors.Join(ErrStoreFailure, err)
	}

	var rec Record[S]
	if err := json.Unmarshal(data, &rec); err != nil {
		return zero, errors.Join(ErrStoreFailure, err)
	}
	return rec.State, nil
}

// Delete removes the prefixed key.
func (s *RedisStore[S]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
