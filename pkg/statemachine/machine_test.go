package statemachine_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
	"github.com/dmitrymomot/gamekit/pkg/statestore"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) Save(ctx context.Context, key string, state phase) error {
	return m.Called(ctx, key, state).Error(0)
}

func (m *storeMock) Load(ctx context.Context, key string) (phase, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(phase), args.Error(1)
}

func (m *storeMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestMachine_Transition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := newTestGraph(t)
	m, err := statemachine.NewMachine(g, S1)
	require.NoError(t, err)
	assert.Same(t, g, m.Graph())

	var entered []phase
	_, err = g.Registry().SubscribeToAllTransitions("test", func(_, to phase) {
		entered = append(entered, to)
	})
	require.NoError(t, err)

	assert.True(t, m.CanTransition(S2))
	assert.False(t, m.CanTransition(S3))

	next, err := m.Transition(ctx, S2)
	require.NoError(t, err)
	assert.Equal(t, S2, next)
	assert.Equal(t, S2, m.Current())

	next, err = m.Transition(ctx, S1)
	assert.True(t, statemachine.IsInvalidTransitionError(err))
	assert.Equal(t, S2, next)
	assert.Equal(t, S2, m.Current())

	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, S1, m.Current())
	assert.Equal(t, []phase{S2}, entered)
}

func TestMachine_Validation(t *testing.T) {
	t.Parallel()

	_, err := statemachine.NewMachine[phase](nil, S1)
	assert.True(t, statemachine.IsInvalidArgumentError(err))

	g := newTestGraph(t)
	_, err = statemachine.NewMachine(g, S1, statemachine.WithStore[phase](nil, "k"))
	assert.True(t, statemachine.IsInvalidArgumentError(err))

	_, err = statemachine.NewMachine(g, S1, statemachine.WithStore[phase](statestore.NewMemoryStore[phase](0), ""))
	assert.True(t, statemachine.IsInvalidArgumentError(err))
}

func TestMachine_PersistAndRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := newTestGraph(t)
	store := statestore.NewMemoryStore[phase](0)

	m, err := statemachine.NewMachine(g, S1, statemachine.WithStore[phase](store, "player-1"))
	require.NoError(t, err)

	_, err = m.Transition(ctx, S2)
	require.NoError(t, err)

	saved, err := store.Load(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, S2, saved)

	restored, err := statemachine.NewMachine(g, S1, statemachine.WithStore[phase](store, "player-1"))
	require.NoError(t, err)
	state, err := restored.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, S2, state)
	assert.Equal(t, S2, restored.Current())

	require.NoError(t, restored.Reset(ctx))
	saved, err = store.Load(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, S1, saved)
}

func TestMachine_Restore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g := newTestGraph(t)

	t.Run("without store keeps current", func(t *testing.T) {
		m, err := statemachine.NewMachine(g, S1)
		require.NoError(t, err)
		state, err := m.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, S1, state)
	})

	t.Run("nothing stored keeps current", func(t *testing.T) {
		m, err := statemachine.NewMachine(g, S1,
			statemachine.WithStore[phase](statestore.NewMemoryStore[phase](0), "fresh"))
		require.NoError(t, err)
		state, err := m.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, S1, state)
	})

	t.Run("unknown stored state is rejected", func(t *testing.T) {
		store := statestore.NewMemoryStore[phase](0)
		require.NoError(t, store.Save(ctx, "k", "ghost"))

		m, err := statemachine.NewMachine(g, S1, statemachine.WithStore[phase](store, "k"))
		require.NoError(t, err)
		_, err = m.Restore(ctx)
		assert.True(t, statemachine.IsInvalidArgumentError(err))
		assert.Equal(t, S1, m.Current())
	})

	t.Run("store failure", func(t *testing.T) {
		store := &storeMock{}
		store.On("Load", mock.Anything, "k").Return(phase(""), statestore.ErrStoreFailure)

		m, err := statemachine.NewMachine(g, S1, statemachine.WithStore[phase](store, "k"))
		require.NoError(t, err)
		_, err = m.Restore(ctx)
		assert.ErrorIs(t, err, statemachine.ErrPersistFailed)
		assert.ErrorIs(t, err, statestore.ErrStoreFailure)
		store.AssertExpectations(t)
	})
}

func TestMachine_PersistFailure(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))

	boom := errors.New("disk full")
	store := &storeMock{}
	store.On("Save", mock.Anything, "player-1", S2).Return(boom).Once()

	g := newTestGraph(t)
	m, err := statemachine.NewMachine(g, S1,
		statemachine.WithStore[phase](store, "player-1"),
		statemachine.WithMachineLogger[phase](log),
	)
	require.NoError(t, err)

	next, err := m.Transition(context.Background(), S2)
	require.Error(t, err)
	assert.ErrorIs(t, err, statemachine.ErrPersistFailed)
	assert.ErrorIs(t, err, boom)
	assert.False(t, statemachine.IsInvalidTransitionError(err))
	assert.Equal(t, S2, next)
	assert.Equal(t, S2, m.Current())

	assert.Contains(t, buf.String(), "failed to persist machine state")
	assert.Contains(t, buf.String(), `"machine_key":"player-1"`)
	store.AssertExpectations(t)
}

func TestMachine_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g, err := statemachine.NewBuilder[phase]().
		From(S1).To(S2).
		From(S2).To(S1).
		Build()
	require.NoError(t, err)

	var count int
	_, err = g.Registry().SubscribeToAllTransitions("counter", func(_, _ phase) { count++ })
	require.NoError(t, err)

	m, err := statemachine.NewMachine(g, S1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := S2
			if m.Current() == S2 {
				target = S1
			}
			if _, err := m.Transition(ctx, target); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// count is only touched under the machine lock
	assert.Equal(t, succeeded, count)
}
