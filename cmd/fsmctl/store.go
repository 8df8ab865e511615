package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/gamekit/pkg/mongo"
	"github.com/dmitrymomot/gamekit/pkg/pg"
	"github.com/dmitrymomot/gamekit/pkg/redis"
	"github.com/dmitrymomot/gamekit/pkg/statestore"
)

// openStore resolves the state store driver. Local drivers come from
// statestore.NewLocal; redis, postgres and mongo connect with their
// package's Config and must pass their healthcheck before the store is
// returned. The returned close func is never nil.
func openStore(ctx context.Context, cfg Config, driver string, log *slog.Logger) (statestore.Store[string], func(), error) {
	storeCfg := cfg.Store
	if driver != "" {
		storeCfg.Driver = driver
	}
	noop := func() {}

	switch storeCfg.Driver {
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		if err := redis.Healthcheck(client)(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		store := statestore.NewRedisStore[string](client, storeCfg.Prefix, storeCfg.TTL)
		return store, func() { _ = client.Close() }, nil

	case "postgres":
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		if err := pg.Healthcheck(pool)(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		if err := statestore.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return statestore.NewPostgresStore[string](pool), pool.Close, nil

	case "mongo":
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, noop, err
		}
		disconnect := func() { _ = db.Client().Disconnect(context.WithoutCancel(ctx)) }
		if err := mongo.Healthcheck(db.Client())(ctx); err != nil {
			disconnect()
			return nil, noop, err
		}
		store := statestore.NewMongoStore[string](db, storeCfg.MongoCollection)
		return store, disconnect, nil

	default:
		store, err := statestore.NewLocal[string](storeCfg)
		return store, noop, err
	}
}
