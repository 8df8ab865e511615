package statestore

import (
	"fmt"
	"time"
)

// Config selects and tunes a store backend.
type Config struct {
	Driver          string        `env:"STATESTORE_DRIVER" envDefault:"memory"`                   // Driver is one of memory, file, redis, postgres or mongo.
	Dir             string        `env:"STATESTORE_DIR" envDefault:".gamekit/states"`             // Dir is the FileStore directory.
	Format          Format        `env:"STATESTORE_FORMAT" envDefault:"json"`                     // Format is the FileStore encoding, json or yaml.
	TTL             time.Duration `env:"STATESTORE_TTL" envDefault:"0s"`                          // TTL expires memory and redis entries; zero keeps them.
	Prefix          string        `env:"STATESTORE_PREFIX" envDefault:"gamekit:state:"`           // Prefix is prepended to redis keys.
	MongoCollection string        `env:"STATESTORE_MONGO_COLLECTION" envDefault:"machine_states"` // MongoCollection is the MongoStore collection name.
}

// NewLocal builds the backends that need no external client: memory and file.
func NewLocal[S any](cfg Config) (Store[S], error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore[S](cfg.TTL), nil
	case "file":
		return NewFileStore[S](cfg.Dir, cfg.Format)
	default:
		return nil, fmt.Errorf("%w: %q needs an external client", ErrUnknownDriver, cfg.Driver)
	}
}
