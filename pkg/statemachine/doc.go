// Package statemachine provides a generic transition graph with typed
// transition listeners.
//
// A Graph[S] is a directed set of permitted transitions between states of any
// comparable type. It does not remember a current state: TransitionTo takes
// the caller's current state and a target, validates the edge, notifies
// listeners and returns the target as the new current state. A missing edge
// yields an *ErrInvalidTransition and no listener fires.
//
// # Listeners
//
// Every Graph dispatches to a Registry[S]. Four kinds of listeners exist:
//
//   - SubscribeToAllTransitions fires for every transition with (from, to).
//   - SubscribeToTransition fires for one exact (from, to) pair.
//   - SubscribeToStateExited fires for any transition leaving a state.
//   - SubscribeToStateEntered fires for any transition arriving in a state.
//
// For a single transition the groups always fire in that order, and inside a
// group listeners fire in registration order. Each subscription carries an
// owner token and returns a Subscription handle whose ID can be passed to
// Unsubscribe; UnsubscribeOwner drops all of an owner's subscriptions at once.
//
// A graph created without WithRegistry gets its own registry. Graphs created
// with the same registry share listeners, so a subscription to Idle -> Running
// fires whichever graph performed the transition.
//
// # Usage
//
//	type Phase string
//
//	const (
//	    Lobby     Phase = "lobby"
//	    Countdown Phase = "countdown"
//	    Playing   Phase = "playing"
//	)
//
//	g := statemachine.NewBuilder[Phase]().
//	    From(Lobby).To(Countdown).
//	    From(Countdown).To(Playing, Lobby).
//	    MustBuild()
//
//	_, _ = g.Registry().SubscribeToStateEntered(hud, Playing, hud.ShowScore)
//
//	current := Lobby
//	current, err := g.TransitionTo(current, Countdown)
//	if statemachine.IsInvalidTransitionError(err) {
//	    // current is unchanged
//	}
//
// # Concurrency
//
// Graph and Registry do no locking and never block; listeners run on the
// goroutine that called TransitionTo. Machine wraps a graph with a mutex and
// an optional statestore.Store for callers that need a shared, persisted
// current state. Feed hands transitions to other goroutines over channels.
//
// # Definitions and Export
//
// Definition is the YAML/JSON form of a graph (LoadDefinition, Build,
// DefinitionOf). DOT and Mermaid render a graph for documentation, optionally
// highlighting the current state.
//
// # Error Handling
//
//	if statemachine.IsInvalidTransitionError(err) { ... }
//	if statemachine.IsInvalidArgumentError(err) { ... }   // nil state, owner or callback
//	if statemachine.IsInvalidDefinitionError(err) { ... }
//	if errors.Is(err, statemachine.ErrPersistFailed) { ... }
package statemachine
