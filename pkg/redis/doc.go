// Package redis connects gamekit services to Redis and carries state machine
// transitions over Redis pub/sub.
//
// Connect retries a go-redis client until it answers PING; Healthcheck turns a
// client into a probe. Config is populated from environment variables via
// pkg/config.
//
// Publisher subscribes to a statemachine.Registry and forwards every
// transition to a channel as JSON. Dispatch only enqueues; the Run loop does
// the network I/O, so a slow server never stalls gameplay code. Listen is the
// receiving side: it decodes events from a channel and hands them to a
// callback.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	pub, err := redis.NewPublisher(client, graph.Registry(), cfg.Channel,
//	    redis.WithQueueSize(cfg.QueueSize),
//	)
//	go pub.Run(ctx)
//
//	// elsewhere
//	err = redis.Listen(ctx, client, cfg.Channel, func(ev statemachine.TransitionEvent[Phase]) error {
//	    fmt.Println(ev.From, "->", ev.To)
//	    return nil
//	})
//
// # Errors
//
// Sentinel errors (ErrRedisNotReady, ErrPublishFailed, ErrDecodeFailed, ...)
// are joined with the underlying go-redis error using errors.Join.
package redis
