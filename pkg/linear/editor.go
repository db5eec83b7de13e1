package linear

// Options configures an Editor.
type Options struct {
	// AllowResizeNeighbour lets a growing interval consume whole neighbours.
	AllowResizeNeighbour bool
	// KeepZeroLength keeps zero-length intervals produced by an edit.
	KeepZeroLength bool
	// Epsilon is the length at or below which an interval counts as empty.
	Epsilon float64
}

// Edit is the repaired outcome of one editor operation.
type Edit[P any] struct {
	// Sequence is the repaired sequence.
	Sequence Sequence[P]
	// Mapping sends pre-edit indices to indices of Sequence.
	Mapping Mapping
	// Selected is where the caller's selection pointer should move.
	Selected int
}

// Editor runs edits followed by Repair, so every Edit it returns holds a
// valid sequence and a mapping that accounts for both steps.
type Editor[P any] struct {
	opts Options
}

// NewEditor creates an Editor.
func NewEditor[P any](opts Options) *Editor[P] {
	return &Editor[P]{opts: opts}
}

// Options returns the editor configuration.
func (e *Editor[P]) Options() Options {
	return e.opts
}

// Resize moves an edge of the interval at index by delta. See Resize.
func (e *Editor[P]) Resize(seq Sequence[P], index int, delta float64, edge Edge) (Edit[P], error) {
	raw, mapping, err := Resize(seq, index, delta, edge, e.opts.AllowResizeNeighbour)
	if err != nil {
		return Edit[P]{}, err
	}

	return e.finish(raw, seq.TotalLength(), mapping, index)
}

// MoveEdge moves an edge of the interval at index to an absolute position.
// See MoveEdge.
func (e *Editor[P]) MoveEdge(seq Sequence[P], index int, edge Edge, position float64) (Edit[P], error) {
	raw, mapping, err := MoveEdge(seq, index, edge, position, e.opts.AllowResizeNeighbour)
	if err != nil {
		return Edit[P]{}, err
	}

	return e.finish(raw, seq.TotalLength(), mapping, index)
}

// Split cuts the sequence at a position. selected is the caller's current
// selection and is carried through the returned mapping.
func (e *Editor[P]) Split(seq Sequence[P], selected int, at float64) (Edit[P], error) {
	out, mapping, err := Split(seq, at)
	if err != nil {
		return Edit[P]{}, err
	}

	return e.finish(out.Slots(), seq.TotalLength(), mapping, selected)
}

// Merge joins the interval at index with a neighbour. The merged interval is
// selected.
func (e *Editor[P]) Merge(seq Sequence[P], index int, dir Direction) (Edit[P], error) {
	out, mapping, err := Merge(seq, index, dir)
	if err != nil {
		return Edit[P]{}, err
	}

	return e.finish(out.Slots(), seq.TotalLength(), mapping, index)
}

// Repair repairs seq against totalLength with the editor's options.
func (e *Editor[P]) Repair(seq Sequence[P], totalLength float64) (Edit[P], error) {
	return e.finish(seq.Slots(), totalLength, Identity(len(seq)), 0)
}

func (e *Editor[P]) finish(raw Slots[P], totalLength float64, mapping Mapping, selected int) (Edit[P], error) {
	seq, fix, err := repair(raw, totalLength, e.repairOptions())
	if err != nil {
		return Edit[P]{}, err
	}

	composed := mapping.Compose(fix)

	return Edit[P]{
		Sequence: seq,
		Mapping:  composed,
		Selected: composed.Follow(selected),
	}, nil
}

func (e *Editor[P]) repairOptions() repairOptions {
	return repairOptions{
		keepZeroLength: e.opts.KeepZeroLength,
		epsilon:        max(e.opts.Epsilon, 0),
	}
}
