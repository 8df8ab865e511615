// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for .env files.
//
//   - Load parses the environment into any struct with env tags and caches
//     the result per type and prefix.
//   - WithPrefix loads the same struct for several instances.
//   - WithEnvironment parses from a map, which keeps tests hermetic.
//   - LoadEnv reads extra .env files and drops the cache.
//   - MustLoad and MustLoadEnv panic instead of returning an error.
//
// # Usage
//
//	type Config struct {
//		Log   logger.Config
//		Store statestore.Config
//		Redis redis.Config
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// The first Load call reads .env from the working directory when present.
// Variables already set in the process environment win over .env values.
//
// # Errors
//
// Parse failures are joined with ErrParsingConfig; a missing explicit .env
// file is joined with ErrLoadingEnvFile.
package config
