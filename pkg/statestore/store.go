package statestore

import (
	"context"
	"time"
)

// Store saves and loads the current state of a machine by key.
// Implementations are safe for concurrent use.
type Store[S any] interface {
	// Save stores state under key, replacing any previous value.
	Save(ctx context.Context, key string, state S) error

	// Load returns the state stored under key or an error matching ErrNotFound.
	Load(ctx context.Context, key string) (S, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Record is the persisted form of a machine state.
type Record[S any] struct {
	Key       string    `json:"key" yaml:"key" bson:"_id"`
	State     S         `json:"state" yaml:"state" bson:"state"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" bson:"updated_at"`
}

func newRecord[S any](key string, state S) Record[S] {
	return Record[S]{
		Key:       key,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
}
