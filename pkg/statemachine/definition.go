package statemachine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// EdgeSet lists the destinations permitted from one state.
type EdgeSet[S comparable] struct {
	From S   `yaml:"from" json:"from"`
	To   []S `yaml:"to" json:"to"`
}

// Definition is the serialized form of a transition graph:
//
//	name: match
//	initial: lobby
//	transitions:
//	  - from: lobby
//	    to: [countdown]
//	  - from: countdown
//	    to: [playing, lobby]
type Definition[S comparable] struct {
	Name        string       `yaml:"name,omitempty" json:"name,omitempty"`
	Initial     S            `yaml:"initial" json:"initial"`
	Transitions []EdgeSet[S] `yaml:"transitions" json:"transitions"`
}

// LoadDefinition decodes and validates a definition. YAML is a superset of
// JSON, so both formats are accepted. Unknown fields are rejected.
func LoadDefinition[S comparable](r io.Reader) (*Definition[S], error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Definition[S]
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDefinitionFile reads a definition from path.
func LoadDefinitionFile[S comparable](path string) (*Definition[S], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition %s: %w", path, err)
	}
	defer f.Close()

	d, err := LoadDefinition[S](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// DefinitionOf captures a graph's edges as a Definition.
func DefinitionOf[S comparable](name string, initial S, g *Graph[S]) *Definition[S] {
	d := &Definition[S]{Name: name, Initial: initial}
	for _, from := range g.States() {
		if to := g.Destinations(from); len(to) > 0 {
			d.Transitions = append(d.Transitions, EdgeSet[S]{From: from, To: to})
		}
	}
	return d
}

// Validate checks that the definition has at least one edge, that every edge
// names a destination and that the initial state appears in some edge.
func (d *Definition[S]) Validate() error {
	if len(d.Transitions) == 0 {
		return fmt.Errorf("%w: no transitions", ErrInvalidDefinition)
	}
	if isNil(d.Initial) {
		return fmt.Errorf("%w: initial state is required", ErrInvalidDefinition)
	}

	initialSeen := false
	for i, set := range d.Transitions {
		if isNil(set.From) {
			return fmt.Errorf("%w: transitions[%d]: from state is required", ErrInvalidDefinition, i)
		}
		if len(set.To) == 0 {
			return fmt.Errorf("%w: transitions[%d]: no destinations from %v", ErrInvalidDefinition, i, set.From)
		}
		if set.From == d.Initial {
			initialSeen = true
		}
		for j, to := range set.To {
			if isNil(to) {
				return fmt.Errorf("%w: transitions[%d].to[%d]: state is required", ErrInvalidDefinition, i, j)
			}
			if to == d.Initial {
				initialSeen = true
			}
		}
	}
	if !initialSeen {
		return fmt.Errorf("%w: initial state %v is not used by any transition", ErrInvalidDefinition, d.Initial)
	}
	return nil
}

// Edges flattens the definition into single transitions.
func (d *Definition[S]) Edges() []Edge[S] {
	var edges []Edge[S]
	for _, set := range d.Transitions {
		for _, to := range set.To {
			edges = append(edges, Edge[S]{From: set.From, To: to})
		}
	}
	return edges
}

// Build validates the definition and creates a graph from it. Options are
// applied before the definition's edges.
func (d *Definition[S]) Build(opts ...GraphOption[S]) (*Graph[S], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	opts = append(slices.Clone(opts), WithTransitions(d.Edges()...))
	return NewGraph(opts...)
}

// Encode writes the definition as YAML.
func (d *Definition[S]) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	return enc.Close()
}
