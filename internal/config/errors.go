package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates a file extension with no decoder.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrInvalid indicates a configuration that failed validation.
	ErrInvalid = errors.New("invalid configuration")
)

// FieldError reports an invalid configuration value.
type FieldError struct {
	Field string
	Value any
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Msg, e.Value)
}

// Unwrap makes every FieldError match ErrInvalid.
func (e *FieldError) Unwrap() error {
	return ErrInvalid
}
