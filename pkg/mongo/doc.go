// Package mongo connects the MongoDB client used by the mongo state store
// driver.
//
// New applies Config to the driver options and retries until the server
// answers a ping. NewWithDatabase returns the configured database, ready to
// hand to statestore.NewMongoStore:
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.WithoutCancel(ctx))
//
//	store := statestore.NewMongoStore[string](db, "machine_states")
//
// Config fields are read from MONGODB_* environment variables.
package mongo
