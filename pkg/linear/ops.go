package linear

import (
	"fmt"
	"math"
)

// Direction names the neighbour an interval merges with.
type Direction string

// Merge directions.
const (
	Previous Direction = "previous"
	Next     Direction = "next"
)

// ParseDirection converts a textual direction into a Direction.
func ParseDirection(name string) (Direction, error) {
	switch Direction(name) {
	case Previous, Next:
		return Direction(name), nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, name)
	}
}

// Split cuts the interval strictly containing at into two intervals that both
// carry its payload. Splitting on an existing boundary changes nothing.
func Split[P any](seq Sequence[P], at float64) (Sequence[P], Mapping, error) {
	total := seq.TotalLength()

	if len(seq) == 0 || math.IsNaN(at) || at <= 0 || at >= total {
		return nil, nil, fmt.Errorf("%w: split position %v outside (0, %v)", ErrInvalidArgument, at, total)
	}

	target := -1

	for i, iv := range seq {
		if iv.Begin < at && at < iv.End {
			target = i

			break
		}
	}

	if target < 0 {
		return seq.Clone(), Identity(len(seq)), nil
	}

	out := make(Sequence[P], 0, len(seq)+1)
	out = append(out, seq[:target]...)

	left := seq[target]
	right := seq[target]
	left.End = at
	right.Begin = at
	right.Payload = clonePayload(left.Payload)

	out = append(out, left, right)
	out = append(out, seq[target+1:]...)

	mapping := Identity(len(seq))
	for i := target + 1; i < len(mapping); i++ {
		mapping[i]++
	}

	return out, mapping, nil
}

// Merge extends the interval at index over its neighbour in the given
// direction. The merged interval keeps the payload of the interval at index.
func Merge[P any](seq Sequence[P], index int, dir Direction) (Sequence[P], Mapping, error) {
	if index < 0 || index >= len(seq) {
		return nil, nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidArgument, index, len(seq))
	}

	var other int

	switch dir {
	case Previous:
		other = index - 1
	case Next:
		other = index + 1
	default:
		return nil, nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, dir)
	}

	if other < 0 || other >= len(seq) {
		return nil, nil, fmt.Errorf("%w: interval %d has no %s neighbour", ErrInvalidArgument, index, dir)
	}

	merged := seq[index]
	merged.Begin = math.Min(merged.Begin, seq[other].Begin)
	merged.End = math.Max(merged.End, seq[other].End)

	out := make(Sequence[P], 0, len(seq)-1)
	mapping := make(Mapping, len(seq))

	for i := range seq {
		switch i {
		case other:
			mapping[i] = Removed

			continue
		case index:
			out = append(out, merged)
		default:
			out = append(out, seq[i])
		}

		mapping[i] = len(out) - 1
	}

	return out, mapping, nil
}

// Validate reports the first broken sequence invariant as an error wrapping
// ErrInvalidSequence.
func Validate[P any](seq Sequence[P], totalLength float64) error {
	if math.IsNaN(totalLength) || totalLength <= 0 {
		return fmt.Errorf("%w: total length must be positive, got %v", ErrInvalidSequence, totalLength)
	}

	if len(seq) == 0 {
		return fmt.Errorf("%w: no interval", ErrInvalidSequence)
	}

	if seq[0].Begin != 0 {
		return fmt.Errorf("%w: first interval begins at %v, not 0", ErrInvalidSequence, seq[0].Begin)
	}

	for i, iv := range seq {
		if iv.End < iv.Begin {
			return fmt.Errorf("%w: interval %d ends at %v before it begins at %v", ErrInvalidSequence, i, iv.End, iv.Begin)
		}

		if i == 0 {
			continue
		}

		if iv.Begin < seq[i-1].Begin {
			return fmt.Errorf("%w: interval %d is out of order", ErrInvalidSequence, i)
		}

		if iv.Begin != seq[i-1].End {
			return fmt.Errorf("%w: gap or overlap between intervals %d and %d (%v != %v)",
				ErrInvalidSequence, i-1, i, seq[i-1].End, iv.Begin)
		}
	}

	if last := seq[len(seq)-1].End; last != totalLength {
		return fmt.Errorf("%w: last interval ends at %v, not %v", ErrInvalidSequence, last, totalLength)
	}

	return nil
}
