// Package linear edits sequences of contiguous intervals that tile a fixed
// total length, such as speed sections or electrification ranges laid along a
// route.
//
// A valid Sequence satisfies five invariants: intervals are sorted by Begin,
// the first one begins at 0, every interval ends where the next one begins,
// the last one ends at the total length, and no interval ends before it
// begins. Edits never mutate their input. They return a new sequence together
// with a Mapping from pre-edit indices to post-edit indices, so that callers
// can keep a selection pointer coherent.
package linear

import "fmt"

// Edge selects which boundary of an interval an edit moves.
type Edge string

// Supported edges.
const (
	EdgeBegin Edge = "begin"
	EdgeEnd   Edge = "end"
)

// ParseEdge converts a textual edge name into an Edge.
func ParseEdge(name string) (Edge, error) {
	edge := Edge(name)
	if !edge.valid() {
		return "", fmt.Errorf("%w: unknown edge %q", ErrInvalidArgument, name)
	}

	return edge, nil
}

func (e Edge) valid() bool {
	return e == EdgeBegin || e == EdgeEnd
}

// Interval is a span [Begin, End) carrying an opaque payload.
type Interval[P any] struct {
	Begin   float64
	End     float64
	Payload P
}

// Length returns End - Begin.
func (iv Interval[P]) Length() float64 {
	return iv.End - iv.Begin
}

// Edge returns the position of the given boundary.
func (iv Interval[P]) Edge(edge Edge) float64 {
	if edge == EdgeBegin {
		return iv.Begin
	}

	return iv.End
}

// Cloner is implemented by payloads that must not be shared between the two
// halves of a split interval.
type Cloner[P any] interface {
	Clone() P
}

func clonePayload[P any](payload P) P {
	if c, ok := any(payload).(Cloner[P]); ok {
		return c.Clone()
	}

	return payload
}

// Sequence is an ordered list of intervals.
type Sequence[P any] []Interval[P]

// TotalLength returns the end of the last interval, or 0 for an empty sequence.
func (s Sequence[P]) TotalLength() float64 {
	if len(s) == 0 {
		return 0
	}

	return s[len(s)-1].End
}

// Clone returns a shallow copy of the sequence.
func (s Sequence[P]) Clone() Sequence[P] {
	if s == nil {
		return nil
	}

	out := make(Sequence[P], len(s))
	copy(out, s)

	return out
}

// Slots returns a fresh slot list holding a copy of every interval.
func (s Sequence[P]) Slots() Slots[P] {
	slots := make(Slots[P], len(s))
	for i := range s {
		iv := s[i]
		slots[i] = &iv
	}

	return slots
}

// Slots is the raw output of an edit. A nil slot marks an interval the edit
// consumed; Repair performs the actual splice.
type Slots[P any] []*Interval[P]

// Compact returns the intervals of the non-nil slots, in order.
func (s Slots[P]) Compact() Sequence[P] {
	out := make(Sequence[P], 0, len(s))

	for _, slot := range s {
		if slot != nil {
			out = append(out, *slot)
		}
	}

	return out
}
