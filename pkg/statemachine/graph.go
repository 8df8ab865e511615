package statemachine

import (
	"fmt"
	"slices"
)

// Graph is a directed set of permitted transitions between states.
// Destinations are kept in insertion order, states in first-seen order, so
// listings and exports are deterministic.
//
// Like Registry, a Graph does no locking. Build it before use or serialize
// AddTransition with TransitionTo yourself. The zero value is an empty graph
// with a private registry.
type Graph[S comparable] struct {
	edges    map[S]map[S]struct{}
	order    map[S][]S
	states   []S
	seen     map[S]struct{}
	registry *Registry[S]
}

func newGraph[S comparable]() *Graph[S] {
	g := &Graph[S]{}
	g.init()
	return g
}

func (g *Graph[S]) init() {
	if g.edges != nil {
		return
	}
	g.edges = make(map[S]map[S]struct{})
	g.order = make(map[S][]S)
	g.seen = make(map[S]struct{})
}

// AddTransition permits the transition from -> to. Adding an existing edge is
// a no-op. Self-transitions are only permitted when added explicitly.
func (g *Graph[S]) AddTransition(from, to S) error {
	if isNil(from) || isNil(to) {
		return invalidArgument("state cannot be nil")
	}
	g.init()

	dests, ok := g.edges[from]
	if !ok {
		dests = make(map[S]struct{})
		g.edges[from] = dests
	}
	if _, exists := dests[to]; exists {
		return nil
	}

	dests[to] = struct{}{}
	g.order[from] = append(g.order[from], to)
	g.remember(from)
	g.remember(to)
	return nil
}

func (g *Graph[S]) remember(s S) {
	if _, ok := g.seen[s]; ok {
		return
	}
	g.seen[s] = struct{}{}
	g.states = append(g.states, s)
}

// TransitionTo validates current -> target against the graph, notifies the
// registry listeners and returns target as the new current state. The graph
// itself is never modified and no current state is stored: the caller keeps
// the returned value.
//
// When the edge is missing the result is an *ErrInvalidTransition, no listener
// fires and current is returned unchanged. Nil states fail with
// ErrInvalidArgument.
func (g *Graph[S]) TransitionTo(current, target S) (S, error) {
	if isNil(current) || isNil(target) {
		return current, invalidArgument("state cannot be nil")
	}
	if !g.CanTransition(current, target) {
		return current, NewErrInvalidTransition(current, target)
	}

	g.Registry().Dispatch(current, target)
	return target, nil
}

// CanTransition reports whether the graph permits from -> to.
func (g *Graph[S]) CanTransition(from, to S) bool {
	_, ok := g.edges[from][to]
	return ok
}

// Destinations returns the states reachable from in one step, in the order
// they were added.
func (g *Graph[S]) Destinations(from S) []S {
	return slices.Clone(g.order[from])
}

// States returns every state that appears in an edge, in first-seen order.
func (g *Graph[S]) States() []S {
	return slices.Clone(g.states)
}

// Edges returns every permitted transition grouped by source state.
func (g *Graph[S]) Edges() []Edge[S] {
	var edges []Edge[S]
	for _, from := range g.states {
		for _, to := range g.order[from] {
			edges = append(edges, Edge[S]{From: from, To: to})
		}
	}
	return edges
}

// Registry returns the listener registry this graph dispatches to.
func (g *Graph[S]) Registry() *Registry[S] {
	if g.registry == nil {
		g.registry = NewRegistry[S]()
	}
	return g.registry
}

func (g *Graph[S]) String() string {
	return fmt.Sprintf("Graph { States = %d, Edges = %d }", len(g.states), len(g.Edges()))
}
