package statemachine

import (
	"fmt"
)

// GraphOption configures a graph during construction.
type GraphOption[S comparable] func(*Graph[S]) error

// NewGraph creates a transition graph with the given options.
// Without WithRegistry the graph gets a private registry, so its listeners
// only hear about its own transitions.
func NewGraph[S comparable](opts ...GraphOption[S]) (*Graph[S], error) {
	g := newGraph[S]()

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	if g.registry == nil {
		g.registry = NewRegistry[S]()
	}

	return g, nil
}

// MustNewGraph works like NewGraph but panics if any option fails to apply,
// following the toolkit's fail-fast pattern for static wiring.
func MustNewGraph[S comparable](opts ...GraphOption[S]) *Graph[S] {
	g, err := NewGraph(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create transition graph: %v", err))
	}
	return g
}

// WithRegistry makes the graph dispatch to a shared registry.
// Graphs sharing a registry broadcast to the same listeners.
func WithRegistry[S comparable](reg *Registry[S]) GraphOption[S] {
	return func(g *Graph[S]) error {
		if reg == nil {
			return invalidArgument("registry cannot be nil")
		}
		reg.init()
		g.registry = reg
		return nil
	}
}

// WithTransition permits a single transition.
func WithTransition[S comparable](from, to S) GraphOption[S] {
	return func(g *Graph[S]) error {
		return g.AddTransition(from, to)
	}
}

// WithTransitions permits several transitions at once.
func WithTransitions[S comparable](edges ...Edge[S]) GraphOption[S] {
	return func(g *Graph[S]) error {
		for i, e := range edges {
			if err := g.AddTransition(e.From, e.To); err != nil {
				return fmt.Errorf("failed to add transition[%d] %v->%v: %w", i, e.From, e.To, err)
			}
		}
		return nil
	}
}
