package statemachine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func receive(t *testing.T, ch <-chan statemachine.TransitionEvent[phase]) statemachine.TransitionEvent[phase] {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return statemachine.TransitionEvent[phase]{}
}

func TestFeed_Delivers(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t)
	feed, err := statemachine.NewFeed(g.Registry(), 4)
	require.NoError(t, err)
	defer feed.Close()

	ctx := context.Background()
	a := feed.Subscribe(ctx)
	b := feed.Subscribe(ctx)
	assert.Equal(t, 2, feed.Len())

	_, err = g.TransitionTo(S1, S2)
	require.NoError(t, err)

	for _, ch := range []<-chan statemachine.TransitionEvent[phase]{a, b} {
		ev := receive(t, ch)
		assert.Equal(t, S1, ev.From)
		assert.Equal(t, S2, ev.To)
		assert.NotEqual(t, uuid.Nil, ev.ID)
		assert.WithinDuration(t, time.Now(), ev.At, time.Second)
	}
}

func TestFeed_DropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	g, err := statemachine.NewBuilder[phase]().From(S1).To(S2).From(S2).To(S1).Build()
	require.NoError(t, err)
	feed, err := statemachine.NewFeed(g.Registry(), 1)
	require.NoError(t, err)
	defer feed.Close()

	slow := feed.Subscribe(context.Background())

	_, err = g.TransitionTo(S1, S2)
	require.NoError(t, err)
	_, err = g.TransitionTo(S2, S1) // buffer full, subscriber dropped
	require.NoError(t, err)

	ev := receive(t, slow)
	assert.Equal(t, S2, ev.To)

	require.Eventually(t, func() bool { return feed.Len() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-slow
	assert.False(t, ok)
}

func TestFeed_ContextCancel(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t)
	feed, err := statemachine.NewFeed(g.Registry(), 1)
	require.NoError(t, err)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := feed.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return feed.Len() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestFeed_Close(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t)
	reg := g.Registry()
	feed, err := statemachine.NewFeed(reg, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	ch := feed.Subscribe(context.Background())
	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close())
	assert.Equal(t, 0, reg.Len())

	_, ok := <-ch
	assert.False(t, ok)

	late := feed.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok)

	_, err = g.TransitionTo(S1, S2)
	require.NoError(t, err)
}

func TestNewFeed_NilRegistry(t *testing.T) {
	t.Parallel()
	_, err := statemachine.NewFeed[phase](nil, 1)
	assert.True(t, statemachine.IsInvalidArgumentError(err))
}
