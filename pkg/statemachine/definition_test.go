package statemachine_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func TestLoadDefinitionFile(t *testing.T) {
	t.Parallel()

	d, err := statemachine.LoadDefinitionFile[string](filepath.Join("testdata", "match.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "match", d.Name)
	assert.Equal(t, "lobby", d.Initial)

	g, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"lobby", "countdown", "playing", "results"}, g.States())
	assert.Equal(t, []string{"playing", "lobby"}, g.Destinations("countdown"))

	_, err = statemachine.LoadDefinitionFile[string](filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDefinition_JSON(t *testing.T) {
	t.Parallel()

	src := `{"initial": 1, "transitions": [{"from": 1, "to": [2, 3]}, {"from": 2, "to": [1]}]}`
	d, err := statemachine.LoadDefinition[int](strings.NewReader(src))
	require.NoError(t, err)

	want := []statemachine.Edge[int]{{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 1}}
	if diff := cmp.Diff(want, d.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefinition_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"empty document", ""},
		{"malformed yaml", "transitions: [from: a"},
		{"unknown field", "initial: a\nstates: [a]\ntransitions:\n  - from: a\n    to: [b]\n"},
		{"no transitions", "initial: a\n"},
		{"no destinations", "initial: a\ntransitions:\n  - from: a\n    to: []\n"},
		{"initial unused", "initial: z\ntransitions:\n  - from: a\n    to: [b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := statemachine.LoadDefinition[string](strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, statemachine.IsInvalidDefinitionError(err), "got %v", err)
		})
	}
}

func TestDefinition_RoundTrip(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t)
	require.NoError(t, g.AddTransition(S1, S3))

	d := statemachine.DefinitionOf("test", S1, g)
	assert.Equal(t, []statemachine.EdgeSet[phase]{
		{From: S1, To: []phase{S2, S3}},
		{From: S2, To: []phase{S3}},
	}, d.Transitions)

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))

	loaded, err := statemachine.LoadDefinition[phase](&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(d, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	rebuilt, err := loaded.Build()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g.Edges(), rebuilt.Edges()))
}

func TestDefinition_BuildWithRegistry(t *testing.T) {
	t.Parallel()

	reg := statemachine.NewRegistry[string]()
	d := &statemachine.Definition[string]{
		Initial:     "a",
		Transitions: []statemachine.EdgeSet[string]{{From: "a", To: []string{"b"}}},
	}
	g, err := d.Build(statemachine.WithRegistry(reg))
	require.NoError(t, err)
	assert.Same(t, reg, g.Registry())

	_, err = (&statemachine.Definition[string]{Initial: "a"}).Build()
	assert.True(t, statemachine.IsInvalidDefinitionError(err))
}
