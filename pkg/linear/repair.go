package linear

import (
	"fmt"
	"math"
	"slices"
)

// RepairOption tunes Repair.
type RepairOption func(*repairOptions)

type repairOptions struct {
	keepZeroLength bool
	epsilon        float64
}

// KeepZeroLength keeps zero-length intervals in the middle of the sequence
// instead of dropping them. Zero-length intervals at either end are always
// kept.
func KeepZeroLength() RepairOption {
	return func(o *repairOptions) {
		o.keepZeroLength = true
	}
}

// WithEpsilon treats intervals no longer than eps as zero-length. The default
// is exact comparison.
func WithEpsilon(eps float64) RepairOption {
	return func(o *repairOptions) {
		if eps > 0 {
			o.epsilon = eps
		}
	}
}

// Repair turns raw edit output back into a valid sequence covering
// [0, totalLength). It splices nil slots, sorts by Begin, clamps every bound
// into range, stitches each interval's Begin to the previous End, pins the
// outer bounds to 0 and totalLength, and drops zero-length intervals in the
// middle of the sequence. Repair is idempotent and never mutates raw.
func Repair[P any](raw Slots[P], totalLength float64, opts ...RepairOption) (Sequence[P], error) {
	var o repairOptions
	for _, opt := range opts {
		opt(&o)
	}

	seq, _, err := repair(raw, totalLength, o)

	return seq, err
}

// RepairSequence is Repair for a sequence without removed slots.
func RepairSequence[P any](seq Sequence[P], totalLength float64, opts ...RepairOption) (Sequence[P], error) {
	return Repair(seq.Slots(), totalLength, opts...)
}

type repairEntry[P any] struct {
	iv     Interval[P]
	origin int
}

// repair also returns a mapping from the index of each non-nil raw slot to its
// index in the repaired sequence.
func repair[P any](raw Slots[P], totalLength float64, o repairOptions) (Sequence[P], Mapping, error) {
	if math.IsNaN(totalLength) || math.IsInf(totalLength, 0) || totalLength <= 0 {
		return nil, nil, fmt.Errorf("%w: total length must be positive, got %v", ErrInvalidSequence, totalLength)
	}

	entries := make([]repairEntry[P], 0, len(raw))

	for _, slot := range raw {
		if slot != nil {
			entries = append(entries, repairEntry[P]{iv: *slot, origin: len(entries)})
		}
	}

	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("%w: no interval left", ErrInvalidSequence)
	}

	slices.SortStableFunc(entries, func(a, b repairEntry[P]) int {
		switch {
		case a.iv.Begin < b.iv.Begin:
			return -1
		case a.iv.Begin > b.iv.Begin:
			return 1
		default:
			return 0
		}
	})

	for i := range entries {
		entries[i].iv.Begin = clamp(entries[i].iv.Begin, totalLength)
		entries[i].iv.End = clamp(entries[i].iv.End, totalLength)
	}

	entries[0].iv.Begin = 0
	stitch(entries)
	entries[len(entries)-1].iv.End = totalLength

	if !o.keepZeroLength {
		entries = dropZeroLength(entries, o.epsilon)
		stitch(entries)
	}

	mapping := make(Mapping, len(raw)-countNil(raw))
	for i := range mapping {
		mapping[i] = Removed
	}

	seq := make(Sequence[P], len(entries))

	for i, e := range entries {
		seq[i] = e.iv
		mapping[e.origin] = i
	}

	return seq, mapping, nil
}

func clamp(v, totalLength float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}

	return math.Min(v, totalLength)
}

// stitch makes every interval start where the previous one ends.
func stitch[P any](entries []repairEntry[P]) {
	for i := range entries {
		if i > 0 {
			entries[i].iv.Begin = entries[i-1].iv.End
		}

		entries[i].iv.End = math.Max(entries[i].iv.End, entries[i].iv.Begin)
	}
}

func dropZeroLength[P any](entries []repairEntry[P], eps float64) []repairEntry[P] {
	if len(entries) <= 2 {
		return entries
	}

	out := make([]repairEntry[P], 0, len(entries))
	last := len(entries) - 1

	for i, e := range entries {
		if i != 0 && i != last && e.iv.Length() <= eps {
			continue
		}

		out = append(out, e)
	}

	return out
}

func countNil[P any](raw Slots[P]) int {
	n := 0

	for _, slot := range raw {
		if slot == nil {
			n++
		}
	}

	return n
}
