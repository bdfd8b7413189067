package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend indicates Start was called without a backend.
	ErrNoBackend = errors.New("no backend")
)

// OperationError is a failed operation on a target, such as applying a
// reloaded configuration file.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError creates an OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError is an error raised by one component of the application.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

// NewComponentError creates a ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Action != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
	case e.Action != "":
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	default:
		return e.Component
	}
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic recovered in an event handler.
// Error includes the stack, so keep it out of user-facing output.
type RecoveredPanicError struct {
	Value any
	Stack string
}

// NewRecoveredPanicError creates a RecoveredPanicError.
func NewRecoveredPanicError(value any, stack string) *RecoveredPanicError {
	return &RecoveredPanicError{Value: value, Stack: stack}
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// InitError is a failure to start a component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
