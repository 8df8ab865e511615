package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidDefinition = errors.New("invalid state machine definition")
	ErrPersistFailed     = errors.New("failed to persist machine state")
)

// ErrInvalidTransition indicates the graph has no edge from From to To.
// It is also returned when From has no outgoing edges at all.
type ErrInvalidTransition struct {
	From any
	To   any
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition from state '%v' to state '%v'", e.From, e.To)
}

// NewErrInvalidTransition reports that from -> to is not permitted.
func NewErrInvalidTransition(from, to any) *ErrInvalidTransition {
	return &ErrInvalidTransition{
		From: from,
		To:   to,
	}
}

// IsInvalidTransitionError reports whether err wraps an *ErrInvalidTransition.
func IsInvalidTransitionError(err error) bool {
	var e *ErrInvalidTransition
	return errors.As(err, &e)
}

// IsInvalidArgumentError reports whether err wraps ErrInvalidArgument.
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidDefinitionError reports whether err wraps ErrInvalidDefinition.
func IsInvalidDefinitionError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
