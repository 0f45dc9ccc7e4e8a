package fetchmock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmocked is returned when a call matches no registration.
	ErrUnmocked = errors.New("unmocked call")

	// ErrNilHandler is returned when a registration is attempted without a handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNilMatcher is returned when a registration is attempted without a matcher.
	ErrNilMatcher = errors.New("matcher cannot be nil")

	// ErrInvalidPattern indicates a request pattern that could not be parsed.
	ErrInvalidPattern = errors.New("invalid request pattern")

	// ErrNilRequest indicates Invoke received a nil Request pointer.
	ErrNilRequest = errors.New("request is nil")

	// ErrInvalidMode indicates an unknown registration mode or a non-positive use count.
	ErrInvalidMode = errors.New("invalid registration mode")

	// ErrHandlerPanic wraps a panic raised inside a handler.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrMatcherPanic wraps a panic raised inside a matcher. The registration is
	// skipped as if it had not matched.
	ErrMatcherPanic = errors.New("matcher panicked")
)

// UnmockedError carries the call that no registration matched.
// It unwraps to ErrUnmocked.
type UnmockedError struct {
	Call Call
}

func (e *UnmockedError) Error() string {
	return fmt.Sprintf("%s #%d: %s", ErrUnmocked, e.Call.Seq, e.Call.Request)
}

func (e *UnmockedError) Unwrap() error { return ErrUnmocked }
