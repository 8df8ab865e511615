package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache keeps one parsed value per (type, prefix) so repeated Load calls from
// different packages see the same configuration.
var (
	cacheMu sync.Mutex
	cache   = make(map[string]any)

	defaultEnvLoaded sync.Once
)

// Option tunes a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	prefix  string
	environ map[string]string
	noCache bool
}

// WithPrefix reads every variable as prefix+NAME, so the same struct can be
// loaded for several instances, e.g. "ARENA_" and "LOBBY_".
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvironment parses from the given map instead of the process
// environment. The result is never cached.
func WithEnvironment(environ map[string]string) Option {
	return func(o *loadOptions) {
		o.environ = environ
		o.noCache = true
	}
}

// WithoutCache parses again even if the type was loaded before, and replaces
// the cached value.
func WithoutCache() Option {
	return func(o *loadOptions) { o.noCache = true }
}

// Load parses environment variables into v based on its env tags.
//
// The first call loads a .env file from the working directory if one exists.
// A successfully parsed value is cached per type and prefix; later calls copy
// the cached value into v.
//
//	type StoreConfig struct {
//		Driver string `env:"STATESTORE_DRIVER" envDefault:"memory"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	key := cacheKey[T](o.prefix)
	if !o.noCache {
		cacheMu.Lock()
		cached, ok := cache[key]
		cacheMu.Unlock()
		if ok {
			*v = cached.(T)
			return nil
		}
	}

	var parsed T
	if err := env.ParseWithOptions(&parsed, env.Options{
		Prefix:      o.prefix,
		Environment: o.environ,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if o.environ == nil {
		cacheMu.Lock()
		cache[key] = parsed
		cacheMu.Unlock()
	}

	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the given .env files into the process environment, without
// overriding variables that are already set. With no arguments it loads
// ".env". Cached configurations are dropped so the next Load sees the new
// values.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	ResetCache()
	return nil
}

// MustLoadEnv works like LoadEnv but panics on error.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(err)
	}
}

// ResetCache drops every cached configuration.
func ResetCache() {
	cacheMu.Lock()
	clear(cache)
	cacheMu.Unlock()
}

func cacheKey[T any](prefix string) string {
	return reflect.TypeFor[T]().String() + "|" + prefix
}
