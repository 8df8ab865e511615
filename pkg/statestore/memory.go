package statestore

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps states in process memory.
// With a positive ttl, entries expire ttl after their last Save.
type MemoryStore[S any] struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory store. A ttl of zero or less keeps
// entries until they are deleted.
func NewMemoryStore[S any](ttl time.Duration) *MemoryStore[S] {
	if ttl <= 0 {
		return &MemoryStore[S]{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryStore[S]{cache: gocache.New(ttl, 2*ttl)}
}

// Save stores state under key with the store's TTL.
func (s *MemoryStore[S]) Save(_ context.Context, key string, state S) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.cache.Set(key, state, gocache.DefaultExpiration)
	return nil
}

// Load returns the state under key, or ErrNotFound once it expired.
func (s *MemoryStore[S]) Load(_ context.Context, key string) (S, error) {
	var zero S
	if key == "" {
		return zero, ErrEmptyKey
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	state, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("key %q holds %T: %w", key, v, ErrStoreFailure)
	}
	return state, nil
}

// Delete drops key.
func (s *MemoryStore[S]) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.cache.Delete(key)
	return nil
}

// Len returns the number of stored keys, including expired ones not yet
// cleaned up.
func (s *MemoryStore[S]) Len() int {
	return s.cache.ItemCount()
}
