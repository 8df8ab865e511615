package statemachine

import (
	"slices"

	"github.com/google/uuid"
)

type pair[S comparable] struct {
	from S
	to   S
}

type entry[F any] struct {
	id    string
	owner any
	fn    F
}

// location records which bucket holds a subscription so it can be removed.
type location[S comparable] struct {
	kind  Kind
	pair  pair[S]
	state S
}

// Registry holds transition listeners for one state type.
//
// Every Graph built with the same Registry notifies the same listeners, so a
// subscription to "A -> B" fires no matter which graph performed the
// transition. A Registry does no locking: subscribe, unsubscribe and dispatch
// must be serialized by the caller. The zero value is ready to use.
type Registry[S comparable] struct {
	all     []entry[func(from, to S)]
	pairs   map[pair[S]][]entry[func()]
	exited  map[S][]entry[func()]
	entered map[S][]entry[func()]
	index   map[string]location[S]
}

// NewRegistry creates an empty listener registry.
func NewRegistry[S comparable]() *Registry[S] {
	r := &Registry[S]{}
	r.init()
	return r
}

func (r *Registry[S]) init() {
	if r.index != nil {
		return
	}
	r.pairs = make(map[pair[S]][]entry[func()])
	r.exited = make(map[S][]entry[func()])
	r.entered = make(map[S][]entry[func()])
	r.index = make(map[string]location[S])
}

// SubscribeToAllTransitions registers fn for every successful transition.
func (r *Registry[S]) SubscribeToAllTransitions(owner any, fn func(from, to S)) (Subscription, error) {
	if err := validateOwner(owner); err != nil {
		return Subscription{}, err
	}
	if fn == nil {
		return Subscription{}, invalidArgument("callback cannot be nil")
	}
	r.init()

	e := entry[func(from, to S)]{id: uuid.NewString(), owner: owner, fn: fn}
	r.all = append(r.all, e)
	r.index[e.id] = location[S]{kind: KindAll}

	return Subscription{ID: e.id, Owner: owner, Kind: KindAll}, nil
}

// SubscribeToTransition registers fn for the exact transition from -> to.
func (r *Registry[S]) SubscribeToTransition(owner any, from, to S, fn func()) (Subscription, error) {
	if err := validateOwner(owner); err != nil {
		return Subscription{}, err
	}
	if isNil(from) || isNil(to) {
		return Subscription{}, invalidArgument("state cannot be nil")
	}
	if fn == nil {
		return Subscription{}, invalidArgument("callback cannot be nil")
	}
	r.init()

	p := pair[S]{from: from, to: to}
	e := entry[func()]{id: uuid.NewString(), owner: owner, fn: fn}
	r.pairs[p] = append(r.pairs[p], e)
	r.index[e.id] = location[S]{kind: KindTransition, pair: p}

	return Subscription{ID: e.id, Owner: owner, Kind: KindTransition}, nil
}

// SubscribeToStateExited registers fn for any transition leaving state.
func (r *Registry[S]) SubscribeToStateExited(owner any, state S, fn func()) (Subscription, error) {
	return r.subscribeState(KindExited, owner, state, fn)
}

// SubscribeToStateEntered registers fn for any transition arriving in state.
func (r *Registry[S]) SubscribeToStateEntered(owner any, state S, fn func()) (Subscription, error) {
	return r.subscribeState(KindEntered, owner, state, fn)
}

func (r *Registry[S]) subscribeState(kind Kind, owner any, state S, fn func()) (Subscription, error) {
	if err := validateOwner(owner); err != nil {
		return Subscription{}, err
	}
	if isNil(state) {
		return Subscription{}, invalidArgument("state cannot be nil")
	}
	if fn == nil {
		return Subscription{}, invalidArgument("callback cannot be nil")
	}
	r.init()

	e := entry[func()]{id: uuid.NewString(), owner: owner, fn: fn}
	bucket := r.stateBucket(kind)
	bucket[state] = append(bucket[state], e)
	r.index[e.id] = location[S]{kind: kind, state: state}

	return Subscription{ID: e.id, Owner: owner, Kind: kind}, nil
}

func (r *Registry[S]) stateBucket(kind Kind) map[S][]entry[func()] {
	if kind == KindExited {
		return r.exited
	}
	return r.entered
}

// Dispatch notifies listeners of a transition from -> to in the fixed order:
// all-transitions, exact pair, exited(from), entered(to). Each group fires in
// registration order.
//
// Dispatch does not validate the transition; Graph.TransitionTo does that
// before calling it. Subscriptions added or removed by a callback take effect
// from the next dispatch.
func (r *Registry[S]) Dispatch(from, to S) {
	all := r.all
	pairs := r.pairs[pair[S]{from: from, to: to}]
	exited := r.exited[from]
	entered := r.entered[to]

	for _, e := range all {
		e.fn(from, to)
	}
	for _, e := range pairs {
		e.fn()
	}
	for _, e := range exited {
		e.fn()
	}
	for _, e := range entered {
		e.fn()
	}
}

// Unsubscribe removes the subscription with the given ID.
// It reports whether a subscription was removed.
func (r *Registry[S]) Unsubscribe(id string) bool {
	loc, ok := r.index[id]
	if !ok {
		return false
	}
	delete(r.index, id)

	match := func(e entry[func()]) bool { return e.id == id }
	switch loc.kind {
	case KindAll:
		r.all = slices.DeleteFunc(slices.Clone(r.all), func(e entry[func(from, to S)]) bool { return e.id == id })
	case KindTransition:
		r.pairs[loc.pair] = slices.DeleteFunc(slices.Clone(r.pairs[loc.pair]), match)
		if len(r.pairs[loc.pair]) == 0 {
			delete(r.pairs, loc.pair)
		}
	case KindExited, KindEntered:
		bucket := r.stateBucket(loc.kind)
		bucket[loc.state] = slices.DeleteFunc(slices.Clone(bucket[loc.state]), match)
		if len(bucket[loc.state]) == 0 {
			delete(bucket, loc.state)
		}
	}
	return true
}

// UnsubscribeOwner removes every subscription registered by owner and
// returns how many were removed.
func (r *Registry[S]) UnsubscribeOwner(owner any) int {
	if !isComparable(owner) {
		return 0
	}

	var ids []string
	for _, e := range r.all {
		if e.owner == owner {
			ids = append(ids, e.id)
		}
	}
	for _, entries := range r.pairs {
		ids = appendOwned(ids, entries, owner)
	}
	for _, bucket := range []map[S][]entry[func()]{r.exited, r.entered} {
		for _, entries := range bucket {
			ids = appendOwned(ids, entries, owner)
		}
	}

	for _, id := range ids {
		r.Unsubscribe(id)
	}
	return len(ids)
}

// Len returns the number of active subscriptions.
func (r *Registry[S]) Len() int {
	return len(r.index)
}

func appendOwned(ids []string, entries []entry[func()], owner any) []string {
	for _, e := range entries {
		if e.owner == owner {
			ids = append(ids, e.id)
		}
	}
	return ids
}

func validateOwner(owner any) error {
	if isNil(owner) {
		return invalidArgument("owner cannot be nil")
	}
	if !isComparable(owner) {
		return invalidArgument("owner of type %T is not comparable", owner)
	}
	return nil
}
