package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

// Publisher forwards every transition dispatched by a registry to a Redis
// pub/sub channel as a JSON encoded statemachine.TransitionEvent.
//
// The registry callback only queues the event; Run does the network I/O on
// its own goroutine. When the queue is full the event is dropped and counted.
type Publisher[S comparable] struct {
	client  redis.UniversalClient
	reg     *statemachine.Registry[S]
	sub     statemachine.Subscription
	channel string
	queue   chan statemachine.TransitionEvent[S]
	dropped atomic.Int64
	log     *slog.Logger
	closed  bool
}

// PublisherOption configures a Publisher.
type PublisherOption func(*publisherOptions)

type publisherOptions struct {
	queueSize int
	log       *slog.Logger
}

// WithQueueSize sets how many events may wait for Run. Defaults to 256.
func WithQueueSize(n int) PublisherOption {
	return func(o *publisherOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithPublisherLogger sets the logger for publish failures and drops.
func WithPublisherLogger(log *slog.Logger) PublisherOption {
	return func(o *publisherOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// NewPublisher subscribes a publisher to every transition on reg. Like any
// registry subscription it must be serialized with dispatches on reg.
func NewPublisher[S comparable](client redis.UniversalClient, reg *statemachine.Registry[S], channel string, opts ...PublisherOption) (*Publisher[S], error) {
	if client == nil || reg == nil {
		return nil, errors.Join(ErrPublishFailed, statemachine.ErrInvalidArgument)
	}
	if channel == "" {
		return nil, errors.Join(ErrPublishFailed, errors.New("channel cannot be empty"))
	}

	o := &publisherOptions{queueSize: 256, log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	p := &Publisher[S]{
		client:  client,
		reg:     reg,
		channel: channel,
		queue:   make(chan statemachine.TransitionEvent[S], o.queueSize),
		log:     o.log.With(logger.Component("redis.publisher")),
	}

	sub, err := reg.SubscribeToAllTransitions(p, p.enqueue)
	if err != nil {
		return nil, err
	}
	p.sub = sub
	return p, nil
}

func (p *Publisher[S]) enqueue(from, to S) {
	select {
	case p.queue <- statemachine.NewTransitionEvent(from, to):
	default:
		p.dropped.Add(1)
		p.log.Warn("transition queue full, event dropped", logger.Transition(from, to))
	}
}

// Run publishes queued events until ctx is done or Close was called and the
// queue is drained. Publish failures are logged and do not stop Run.
func (p *Publisher[S]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-p.queue:
			if !ok {
				return nil
			}
			if err := p.Publish(ctx, ev); err != nil {
				p.log.ErrorContext(ctx, "failed to publish transition",
					logger.Transition(ev.From, ev.To),
					logger.Error(err),
				)
			}
		}
	}
}

// Publish sends one event immediately.
func (p *Publisher[S]) Publish(ctx context.Context, ev statemachine.TransitionEvent[S]) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Dropped returns how many events were discarded because the queue was full.
func (p *Publisher[S]) Dropped() int64 {
	return p.dropped.Load()
}

// Close unsubscribes from the registry and lets Run return once the queue is
// drained. Call it from the goroutine that drives transitions on the
// registry. Close is idempotent.
func (p *Publisher[S]) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.reg.Unsubscribe(p.sub.ID)
	close(p.queue)
	return nil
}

// ListenOption configures Listen.
type ListenOption func(*listenOptions)

type listenOptions struct {
	onSubscribed func()
}

// OnSubscribed is called once the server confirmed the subscription. Events
// published after that point are delivered.
func OnSubscribed(fn func()) ListenOption {
	return func(o *listenOptions) { o.onSubscribed = fn }
}

// Listen subscribes to channel and calls fn for every decoded event until ctx
// is done. A message that cannot be decoded ends Listen with ErrDecodeFailed;
// an error from fn ends it with that error.
func Listen[S comparable](ctx context.Context, client redis.UniversalClient, channel string, fn func(statemachine.TransitionEvent[S]) error, opts ...ListenOption) error {
	o := &listenOptions{}
	for _, opt := range opts {
		opt(o)
	}

	ps := client.Subscribe(ctx, channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Join(ErrRedisNotReady, err)
	}
	if o.onSubscribed != nil {
		o.onSubscribed()
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev statemachine.TransitionEvent[S]
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				return errors.Join(ErrDecodeFailed, err)
			}
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
}
