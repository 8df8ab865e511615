package statemachine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/statestore"
)

// Machine holds the current state for a Graph and serializes access to it.
// Transitions dispatch listeners while the machine lock is held, so a
// listener must not call back into the same Machine.
type Machine[S comparable] struct {
	graph   *Graph[S]
	initial S
	current S
	store   statestore.Store[S]
	key     string
	log     *slog.Logger
	mu      sync.Mutex
}

// MachineOption configures a Machine during construction.
type MachineOption[S comparable] func(*Machine[S]) error

// WithStore saves the current state under key after every successful
// transition and enables Restore.
func WithStore[S comparable](store statestore.Store[S], key string) MachineOption[S] {
	return func(m *Machine[S]) error {
		if store == nil {
			return invalidArgument("store cannot be nil")
		}
		if key == "" {
			return invalidArgument("store key cannot be empty")
		}
		m.store = store
		m.key = key
		return nil
	}
}

// WithMachineLogger sets the logger used for rejected transitions and
// persistence failures. Nil loggers are ignored.
func WithMachineLogger[S comparable](log *slog.Logger) MachineOption[S] {
	return func(m *Machine[S]) error {
		if log != nil {
			m.log = log
		}
		return nil
	}
}

// NewMachine creates a machine positioned at initial.
func NewMachine[S comparable](g *Graph[S], initial S, opts ...MachineOption[S]) (*Machine[S], error) {
	if g == nil {
		return nil, invalidArgument("graph cannot be nil")
	}
	if isNil(initial) {
		return nil, invalidArgument("initial state cannot be nil")
	}

	m := &Machine[S]{
		graph:   g,
		initial: initial,
		current: initial,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Current returns the machine's current state.
func (m *Machine[S]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Graph returns the graph the machine validates against.
func (m *Machine[S]) Graph() *Graph[S] {
	return m.graph
}

// CanTransition reports whether target is reachable from the current state
// in one step.
func (m *Machine[S]) CanTransition(target S) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.graph.CanTransition(m.current, target)
}

// Transition moves the machine to target. Listeners fire before the new state
// is persisted. A store failure is joined with ErrPersistFailed; the machine
// has already moved in that case and the new state is returned with the
// error.
func (m *Machine[S]) Transition(ctx context.Context, target S) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx = m.logContext(ctx)

	next, err := m.graph.TransitionTo(m.current, target)
	if err != nil {
		m.log.DebugContext(ctx, "transition rejected",
			logger.Transition(m.current, target),
			logger.Error(err),
		)
		return m.current, err
	}
	m.current = next

	if err := m.save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}

// Reset moves the machine back to its initial state without notifying
// listeners.
func (m *Machine[S]) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = m.initial
	return m.save(m.logContext(ctx), m.initial)
}

// Restore loads the current state from the store. With no store, or nothing
// stored yet, the machine keeps its current state. A stored state the graph
// does not know is rejected with ErrInvalidArgument.
func (m *Machine[S]) Restore(ctx context.Context) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store == nil {
		return m.current, nil
	}

	state, err := m.store.Load(ctx, m.key)
	if err != nil {
		if statestore.IsNotFoundError(err) {
			return m.current, nil
		}
		return m.current, errors.Join(ErrPersistFailed, err)
	}
	if state != m.initial && !slices.Contains(m.graph.States(), state) {
		return m.current, invalidArgument("stored state %v is not part of the graph", state)
	}

	m.current = state
	return state, nil
}

func (m *Machine[S]) save(ctx context.Context, state S) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(ctx, m.key, state); err != nil {
		m.log.ErrorContext(ctx, "failed to persist machine state",
			logger.State(state),
			logger.Error(err),
		)
		return errors.Join(ErrPersistFailed, err)
	}
	return nil
}

func (m *Machine[S]) logContext(ctx context.Context) context.Context {
	if m.key == "" {
		return ctx
	}
	return logger.WithAttrs(ctx, logger.MachineKey(m.key))
}
