package linear

import "errors"

// Sentinel errors returned by edits. Callers match them with errors.Is.
var (
	// ErrInvalidSequence is returned when a sequence cannot be brought back to
	// a valid tiling: no interval left, or a non-positive total length.
	ErrInvalidSequence = errors.New("invalid sequence")
	// ErrInvalidArgument is returned when an edit is called with an index,
	// edge, position or delta it cannot act on. No work is done in that case.
	ErrInvalidArgument = errors.New("invalid argument")
)
