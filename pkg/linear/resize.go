package linear

import (
	"fmt"
	"math"
)

// Resize moves one edge of the interval at index by delta. Delta is added to
// the edge position: a positive delta on EdgeEnd grows the interval, a
// positive delta on EdgeBegin shrinks it.
//
// Growing absorbs space from the adjacent interval. When allowResizeNeighbour
// is true a neighbour whose length would reach zero is consumed (its slot
// becomes nil and it maps to Removed) and the remainder cascades further,
// until the delta is absorbed or the sequence boundary is hit. When it is
// false the edge never crosses the far end of the immediate neighbour, which
// may shrink to zero length but is kept. Any delta beyond what the sequence
// can absorb is discarded.
//
// Shrinking hands the freed space to the adjacent interval on that side. The
// selected interval stops at zero length and is never consumed. When it has
// no neighbour on that side, a filler interval with the zero payload is
// created to keep the sequence tiled.
//
// The returned slots may contain nil entries and must go through Repair. The
// mapping points at indices of the non-nil slots.
func Resize[P any](
	seq Sequence[P], index int, delta float64, edge Edge, allowResizeNeighbour bool,
) (Slots[P], Mapping, error) {
	if err := checkEdge(seq, index, edge); err != nil {
		return nil, nil, err
	}

	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, nil, fmt.Errorf("%w: delta must be finite, got %v", ErrInvalidArgument, delta)
	}

	if delta == 0 {
		return seq.Slots(), Identity(len(seq)), nil
	}

	return resizeTo(seq, index, edge, seq[index].Edge(edge)+delta, allowResizeNeighbour)
}

// MoveEdge places one edge of the interval at index at an absolute position,
// with the same growth and shrink rules as Resize. The edge lands exactly on
// position unless it is clamped, so a position equal to a neighbour's far
// edge consumes that neighbour when allowResizeNeighbour is set.
func MoveEdge[P any](
	seq Sequence[P], index int, edge Edge, position float64, allowResizeNeighbour bool,
) (Slots[P], Mapping, error) {
	if err := checkEdge(seq, index, edge); err != nil {
		return nil, nil, err
	}

	if math.IsNaN(position) || math.IsInf(position, 0) {
		return nil, nil, fmt.Errorf("%w: position must be finite, got %v", ErrInvalidArgument, position)
	}

	return resizeTo(seq, index, edge, position, allowResizeNeighbour)
}

func checkEdge[P any](seq Sequence[P], index int, edge Edge) error {
	if index < 0 || index >= len(seq) {
		return fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidArgument, index, len(seq))
	}

	if !edge.valid() {
		return fmt.Errorf("%w: unknown edge %q", ErrInvalidArgument, edge)
	}

	return nil
}

// resizeTo moves the edge onto target. Every boundary it writes is either
// target or an existing boundary, never a recomputed sum.
func resizeTo[P any](
	seq Sequence[P], index int, edge Edge, target float64, allowResizeNeighbour bool,
) (Slots[P], Mapping, error) {
	slots := seq.Slots()
	sel := slots[index]

	var (
		filler      *Interval[P]
		fillerFirst bool
	)

	switch {
	case edge == EdgeEnd && target > sel.End:
		growEnd(slots, index, target, allowResizeNeighbour)
	case edge == EdgeEnd && target < sel.End:
		filler = shrinkEnd(slots, index, target)
	case edge == EdgeBegin && target < sel.Begin:
		growBegin(slots, index, target, allowResizeNeighbour)
	case edge == EdgeBegin && target > sel.Begin:
		filler = shrinkBegin(slots, index, target)
		fillerFirst = true
	default:
		return slots, Identity(len(seq)), nil
	}

	return assemble(slots, filler, fillerFirst)
}

// assemble places the optional filler and numbers the surviving slots.
func assemble[P any](slots Slots[P], filler *Interval[P], fillerFirst bool) (Slots[P], Mapping, error) {
	out := make(Slots[P], 0, len(slots)+1)

	if filler != nil && fillerFirst {
		out = append(out, filler)
	}

	mapping := make(Mapping, len(slots))
	next := len(out)

	for i, slot := range slots {
		out = append(out, slot)

		if slot == nil {
			mapping[i] = Removed

			continue
		}

		mapping[i] = next
		next++
	}

	if filler != nil && !fillerFirst {
		out = append(out, filler)
	}

	return out, mapping, nil
}

func growEnd[P any](slots Slots[P], index int, target float64, cascade bool) {
	sel := slots[index]

	if !cascade {
		if index+1 >= len(slots) {
			return
		}

		next := slots[index+1]
		target = math.Min(target, next.End)
		sel.End = target
		next.Begin = target

		return
	}

	for j := index + 1; j < len(slots); j++ {
		next := slots[j]

		if target < next.End {
			next.Begin = target
			sel.End = target

			return
		}

		// The neighbour would reach zero length: consume it.
		sel.End = next.End
		slots[j] = nil
	}
}

func growBegin[P any](slots Slots[P], index int, target float64, cascade bool) {
	sel := slots[index]

	if !cascade {
		if index == 0 {
			return
		}

		prev := slots[index-1]
		target = math.Max(target, prev.Begin)
		sel.Begin = target
		prev.End = target

		return
	}

	for j := index - 1; j >= 0; j-- {
		prev := slots[j]

		if target > prev.Begin {
			prev.End = target
			sel.Begin = target

			return
		}

		sel.Begin = prev.Begin
		slots[j] = nil
	}
}

func shrinkEnd[P any](slots Slots[P], index int, target float64) *Interval[P] {
	sel := slots[index]
	target = math.Max(target, sel.Begin)

	if target == sel.End {
		return nil
	}

	if index+1 < len(slots) {
		slots[index+1].Begin = target
		sel.End = target

		return nil
	}

	filler := &Interval[P]{Begin: target, End: sel.End}
	sel.End = target

	return filler
}

func shrinkBegin[P any](slots Slots[P], index int, target float64) *Interval[P] {
	sel := slots[index]
	target = math.Min(target, sel.End)

	if target == sel.Begin {
		return nil
	}

	if index > 0 {
		slots[index-1].End = target
		sel.Begin = target

		return nil
	}

	filler := &Interval[P]{Begin: sel.Begin, End: target}
	sel.Begin = target

	return filler
}

// Reach returns the range [lo, hi] within which Resize can place the given
// edge of the interval at index. A requested position outside it is clamped.
func Reach[P any](seq Sequence[P], index int, edge Edge, allowResizeNeighbour bool) (lo, hi float64, err error) {
	if index < 0 || index >= len(seq) {
		return 0, 0, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidArgument, index, len(seq))
	}

	iv := seq[index]

	switch edge {
	case EdgeEnd:
		hi = iv.End

		switch {
		case allowResizeNeighbour:
			hi = seq.TotalLength()
		case index+1 < len(seq):
			hi = seq[index+1].End
		}

		return iv.Begin, hi, nil
	case EdgeBegin:
		lo = iv.Begin

		switch {
		case allowResizeNeighbour:
			lo = seq[0].Begin
		case index > 0:
			lo = seq[index-1].Begin
		}

		return lo, iv.End, nil
	default:
		return 0, 0, fmt.Errorf("%w: unknown edge %q", ErrInvalidArgument, edge)
	}
}
