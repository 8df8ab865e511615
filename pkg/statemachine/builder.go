package statemachine

import "slices"

// Builder provides a fluent API for building transition graphs.
//
//	g, err := statemachine.NewBuilder[Phase]().
//	    From(Idle).To(Loading).
//	    From(Loading).To(Playing, Failed).
//	    Build()
type Builder[S comparable] struct {
	opts    []GraphOption[S]
	edges   []Edge[S]
	from    S
	hasFrom bool
	err     error
}

// NewBuilder creates a graph builder. Options are applied before the edges
// collected by From/To.
func NewBuilder[S comparable](opts ...GraphOption[S]) *Builder[S] {
	return &Builder[S]{opts: opts}
}

// From sets the source state for the following To calls.
func (b *Builder[S]) From(state S) *Builder[S] {
	b.from = state
	b.hasFrom = true
	return b
}

// To permits transitions from the current source to each of states.
func (b *Builder[S]) To(states ...S) *Builder[S] {
	if !b.hasFrom {
		if b.err == nil {
			b.err = invalidArgument("To called before From")
		}
		return b
	}
	for _, s := range states {
		b.edges = append(b.edges, Edge[S]{From: b.from, To: s})
	}
	return b
}

// Build returns the constructed graph or the first error recorded.
func (b *Builder[S]) Build() (*Graph[S], error) {
	if b.err != nil {
		return nil, b.err
	}
	opts := append(slices.Clone(b.opts), WithTransitions(b.edges...))
	return NewGraph(opts...)
}

// MustBuild works like Build but panics on error.
func (b *Builder[S]) MustBuild() *Graph[S] {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
