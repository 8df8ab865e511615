package metrics_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gamekit/pkg/metrics"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

type phase string

func newGraph(t *testing.T) *statemachine.Graph[phase] {
	t.Helper()
	return statemachine.NewBuilder[phase]().
		From("lobby").To("playing").
		From("playing").To("results").
		MustBuild()
}

func TestAttach_CountsTransitions(t *testing.T) {
	t.Parallel()

	c := metrics.New("test")
	g := newGraph(t)
	_, err := metrics.Attach(c, g.Registry(), "match")
	require.NoError(t, err)

	_, err = g.TransitionTo("lobby", "playing")
	require.NoError(t, err)
	_, err = g.TransitionTo("playing", "results")
	require.NoError(t, err)
	_, err = g.TransitionTo("results", "lobby")
	require.Error(t, err)
	c.ObserveError("match", err)

	expected := `
# HELP test_invalid_transitions_total Number of transitions rejected by the graph.
# TYPE test_invalid_transitions_total counter
test_invalid_transitions_total{from="results",machine="match",to="lobby"} 1
# HELP test_transitions_total Number of successful state transitions.
# TYPE test_transitions_total counter
test_transitions_total{from="lobby",machine="match",to="playing"} 1
test_transitions_total{from="playing",machine="match",to="results"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"test_transitions_total", "test_invalid_transitions_total"))
}

func TestObserveError(t *testing.T) {
	t.Parallel()

	c := metrics.New("test")
	ctx := context.Background()

	c.ObserveError("m", nil)
	c.ObserveError("m", errors.New("unrelated"))
	assert.Equal(t, 0, testutil.CollectAndCount(c))

	failing := errors.Join(statemachine.ErrPersistFailed, errors.New("disk full"))
	c.ObserveError("m", failing)
	c.ObserveError("m", failing)
	assert.Equal(t, 1, testutil.CollectAndCount(c, "test_persist_failures_total"))

	g := newGraph(t)
	m, err := statemachine.NewMachine(g, "lobby")
	require.NoError(t, err)
	_, err = m.Transition(ctx, "results")
	c.ObserveError("m", err)
	assert.Equal(t, 1, testutil.CollectAndCount(c, "test_invalid_transitions_total"))
}

func TestAttach_DetachByOwner(t *testing.T) {
	t.Parallel()

	c := metrics.New("test")
	reg := statemachine.NewRegistry[phase]()
	_, err := metrics.Attach(c, reg, "a")
	require.NoError(t, err)
	_, err = metrics.Attach(c, reg, "b")
	require.NoError(t, err)

	assert.Equal(t, 2, reg.UnsubscribeOwner(c))

	_, err = metrics.Attach[phase](c, nil, "a")
	assert.True(t, statemachine.IsInvalidArgumentError(err))
}

func TestRegister(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.New("test")
	require.NoError(t, c.Register(reg))

	err := c.Register(reg)
	assert.ErrorIs(t, err, metrics.ErrRegisterFailed)
}
