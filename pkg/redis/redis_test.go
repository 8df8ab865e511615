package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/redis"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

type phase string

func newGraph(t *testing.T) *statemachine.Graph[phase] {
	t.Helper()
	g, err := statemachine.NewBuilder[phase]().
		From("lobby").To("playing").
		From("playing").To("lobby").
		Build()
	require.NoError(t, err)
	return g
}

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "mysql://nope"})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestPublisher_DropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	// never connected: events stay queued because Run is not started
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	g := newGraph(t)
	pub, err := redis.NewPublisher(client, g.Registry(), "test",
		redis.WithQueueSize(2),
		redis.WithPublisherLogger(logger.Discard()),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Registry().Len())

	current := phase("lobby")
	for _, next := range []phase{"playing", "lobby", "playing", "lobby"} {
		current, err = g.TransitionTo(current, next)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), pub.Dropped())

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())
	assert.Equal(t, 0, g.Registry().Len())
}

func TestNewPublisher_Validation(t *testing.T) {
	t.Parallel()

	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	_, err := redis.NewPublisher[phase](client, nil, "test")
	assert.ErrorIs(t, err, redis.ErrPublishFailed)

	_, err = redis.NewPublisher(client, newGraph(t).Registry(), "")
	assert.ErrorIs(t, err, redis.ErrPublishFailed)
}

func TestPublishAndListen(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  3,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, redis.Healthcheck(client)(ctx))

	channel := "gamekit:test:" + t.Name()
	g := newGraph(t)
	pub, err := redis.NewPublisher(client, g.Registry(), channel)
	require.NoError(t, err)

	subscribed := make(chan struct{})
	received := make(chan statemachine.TransitionEvent[phase], 2)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return pub.Run(egCtx) })

	listenCtx, stopListen := context.WithCancel(egCtx)
	eg.Go(func() error {
		return redis.Listen(listenCtx, client, channel, func(ev statemachine.TransitionEvent[phase]) error {
			received <- ev
			return nil
		}, redis.OnSubscribed(func() { close(subscribed) }))
	})

	<-subscribed
	_, err = g.TransitionTo("lobby", "playing")
	require.NoError(t, err)
	_, err = g.TransitionTo("playing", "lobby")
	require.NoError(t, err)

	first, second := <-received, <-received
	assert.Equal(t, phase("lobby"), first.From)
	assert.Equal(t, phase("playing"), first.To)
	assert.Equal(t, phase("lobby"), second.To)

	require.NoError(t, pub.Close())
	stopListen()
	require.NoError(t, eg.Wait())
}
