package lua

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoFunction is returned when calling an undefined global function.
	ErrNoFunction = errors.New("lua function not defined")
)
