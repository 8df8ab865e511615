package statemachine

import (
	"reflect"
)

// Edge is a permitted transition between two states.
type Edge[S comparable] struct {
	From S `json:"from" yaml:"from"`
	To   S `json:"to" yaml:"to"`
}

// Kind identifies the predicate a subscription matches.
type Kind int

const (
	// KindAll matches every transition.
	KindAll Kind = iota
	// KindTransition matches one exact (from, to) pair.
	KindTransition
	// KindExited matches any transition leaving a state.
	KindExited
	// KindEntered matches any transition arriving in a state.
	KindEntered
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindTransition:
		return "transition"
	case KindExited:
		return "exited"
	case KindEntered:
		return "entered"
	default:
		return "unknown"
	}
}

// Subscription is the handle returned when a callback is registered.
// ID is unique per subscription, even when the same owner subscribes twice.
type Subscription struct {
	ID    string
	Owner any
	Kind  Kind
}

// isNil reports whether v is nil or a typed nil pointer, channel or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// isComparable reports whether v can be used with ==.
func isComparable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}
