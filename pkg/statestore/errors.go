package statestore

import "errors"

var (
	ErrNotFound        = errors.New("state not found")
	ErrEmptyKey        = errors.New("state key cannot be empty")
	ErrStoreFailure    = errors.New("state store failure")
	ErrUnknownDriver   = errors.New("unknown state store driver")
	ErrUnknownFormat   = errors.New("unknown file format")
	ErrMigrationFailed = errors.New("failed to apply state store migrations")
)

// IsNotFoundError reports whether err means no state is stored for a key.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
