// Package statestore persists the current state of a state machine under a
// string key.
//
// The transition engine in pkg/statemachine never stores a current state; the
// caller does. When that caller needs the value to survive a restart it plugs
// one of the Store implementations from this package into
// statemachine.Machine via statemachine.WithStore.
//
// # Backends
//
//   - MemoryStore – in-process, optional TTL, backed by github.com/patrickmn/go-cache.
//   - FileStore – one JSON or YAML file per key in a directory.
//   - RedisStore – JSON values under a key prefix, optional expiration.
//   - PostgresStore – a jsonb column in the machine_states table; Migrate
//     creates the table with goose.
//   - MongoStore – one document per key in a collection.
//
// All backends encode the state value itself, so any type that round-trips
// through encoding/json (or BSON for MongoStore) can be stored.
//
// # Usage
//
//	store := statestore.NewMemoryStore[Phase](0)
//	m, err := statemachine.NewMachine(graph, Idle,
//	    statemachine.WithStore[Phase](store, "player-1"),
//	)
//
// # Error Handling
//
// Load returns an error matching ErrNotFound when nothing is stored for a key:
//
//	if statestore.IsNotFoundError(err) { /* fall back to the initial state */ }
//
// Backend failures are joined with ErrStoreFailure.
package statestore
