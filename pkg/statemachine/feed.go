package statemachine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransitionEvent describes one successful transition.
type TransitionEvent[S comparable] struct {
	ID   uuid.UUID `json:"id"`
	From S         `json:"from"`
	To   S         `json:"to"`
	At   time.Time `json:"at"`
}

// NewTransitionEvent stamps a transition with a fresh ID and the current time.
func NewTransitionEvent[S comparable](from, to S) TransitionEvent[S] {
	return TransitionEvent[S]{
		ID:   uuid.New(),
		From: from,
		To:   to,
		At:   time.Now().UTC(),
	}
}

// Feed turns registry dispatches into channel messages for other goroutines.
//
// Sends never block the dispatching goroutine: a subscriber whose buffer is
// full misses the event and is dropped, its channel closed. Subscribe, Close
// and the channels are safe for concurrent use.
type Feed[S comparable] struct {
	reg         *Registry[S]
	sub         Subscription
	subscribers map[*feedSubscriber[S]]struct{}
	bufferSize  int
	closed      bool
	done        chan struct{}
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

type feedSubscriber[S comparable] struct {
	ch     chan TransitionEvent[S]
	closed bool
	mu     sync.Mutex
}

// NewFeed subscribes a feed to every transition dispatched by reg.
// Registering touches the registry, so call it where subscriptions are
// serialized. bufferSize is the per-subscriber channel capacity, at least 1.
func NewFeed[S comparable](reg *Registry[S], bufferSize int) (*Feed[S], error) {
	if reg == nil {
		return nil, invalidArgument("registry cannot be nil")
	}

	f := &Feed[S]{
		reg:         reg,
		subscribers: make(map[*feedSubscriber[S]]struct{}),
		bufferSize:  max(bufferSize, 1),
		done:        make(chan struct{}),
	}
	sub, err := reg.SubscribeToAllTransitions(f, f.publish)
	if err != nil {
		return nil, err
	}
	f.sub = sub
	return f, nil
}

// Subscribe returns a channel receiving every later transition. The channel
// is closed when ctx is done, when the subscriber falls behind, or when the
// feed is closed.
func (f *Feed[S]) Subscribe(ctx context.Context) <-chan TransitionEvent[S] {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &feedSubscriber[S]{ch: make(chan TransitionEvent[S], f.bufferSize)}
	if f.closed {
		sub.close()
		return sub.ch
	}
	f.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		f.cleanupWg.Add(1)
		go func() {
			defer f.cleanupWg.Done()
			select {
			case <-ctx.Done():
				f.unsubscribe(sub)
			case <-f.done:
			}
		}()
	}
	return sub.ch
}

// Len returns the number of active subscribers.
func (f *Feed[S]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close removes the feed's registry subscription and closes every subscriber
// channel. Like NewFeed it touches the registry. Close is idempotent.
func (f *Feed[S]) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.done)
	f.reg.Unsubscribe(f.sub.ID)

	for sub := range f.subscribers {
		sub.close()
	}
	clear(f.subscribers)
	f.mu.Unlock()

	f.cleanupWg.Wait()
	return nil
}

func (f *Feed[S]) publish(from, to S) {
	ev := NewTransitionEvent(from, to)

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}
	for sub := range f.subscribers {
		if !sub.send(ev) {
			go f.unsubscribe(sub)
		}
	}
}

func (f *Feed[S]) unsubscribe(sub *feedSubscriber[S]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subscribers, sub)
	sub.close()
}

func (s *feedSubscriber[S]) send(ev TransitionEvent[S]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

func (s *feedSubscriber[S]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}
