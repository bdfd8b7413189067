package edit

import "errors"

var (
	// ErrNotCursor indicates an operation applied to a fragment that is not
	// a cursor.
	ErrNotCursor = errors.New("fragment is not a cursor")

	// ErrDetached indicates a cursor that is not inside a line.
	ErrDetached = errors.New("cursor not in a line")
)
