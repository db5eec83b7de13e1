package edit

import (
	"errors"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
)

// Sentinel request errors.
var (
	ErrUnknownEdge      = errors.New("unknown edge")
	ErrUnknownDirection = errors.New("unknown merge direction")
	ErrMissingDelta     = errors.New("exactly one of delta or position is required")
	ErrMissingDocument  = errors.New("document is required")
)

// IsInvalidInput reports whether err was caused by the request rather than by
// the service. Outer surfaces map these to client errors.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		linear.ErrInvalidArgument,
		linear.ErrInvalidSequence,
		document.ErrSchema,
		document.ErrMissingBound,
		document.ErrUnknownFormat,
		ErrUnknownEdge,
		ErrUnknownDirection,
		ErrMissingDelta,
		ErrMissingDocument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
