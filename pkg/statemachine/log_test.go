package statemachine_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func TestLogTransitions(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))

	g := newTestGraph(t)
	sub, err := statemachine.LogTransitions(g.Registry(), "logger", log)
	require.NoError(t, err)
	assert.Equal(t, statemachine.KindAll, sub.Kind)
	buf.Reset()

	_, err = g.TransitionTo(S1, S2)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "state transition", entry["msg"])
	assert.Equal(t, map[string]any{"from": "s1", "to": "s2"}, entry["transition"])

	_, err = statemachine.LogTransitions(g.Registry(), "logger", nil)
	assert.True(t, statemachine.IsInvalidArgumentError(err))
}
