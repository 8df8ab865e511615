// Package pg bootstraps the PostgreSQL connection used by the postgres state
// store driver.
//
// Connect opens a *pgxpool.Pool from Config, retrying until the server
// answers a ping. Migrate runs goose migrations from any fs.FS against that
// pool, which is how the statestore package creates its machine_states
// table. Healthcheck wraps a ping for readiness probes.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Config fields are read from PG_* environment variables; see the struct
// tags for names and defaults.
package pg
