package document

import "errors"

// Model errors.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, line length].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNotInLine indicates a fragment that does not belong to the line.
	ErrNotInLine = errors.New("fragment not in line")

	// ErrAttached indicates a fragment that already belongs to a line.
	ErrAttached = errors.New("fragment already attached")

	// ErrNotAdjacent indicates two fragments that are not direct neighbours.
	ErrNotAdjacent = errors.New("fragments not adjacent")

	// ErrNotMergeable indicates a merge involving a non-text fragment.
	ErrNotMergeable = errors.New("fragments not mergeable")

	// ErrUnmergedRuns indicates two adjacent text fragments.
	ErrUnmergedRuns = errors.New("adjacent text runs")

	// ErrInvalidTabStyle indicates an unknown tab style name.
	ErrInvalidTabStyle = errors.New("invalid tab style")
)
