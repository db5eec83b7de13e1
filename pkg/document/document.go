package document

import "github.com/Sumatoshi-tech/linseg/pkg/linear"

// Document is a stored sequence. TotalLength may be omitted, in which case
// the end of the last interval is used.
type Document struct {
	TotalLength float64 `json:"total_length,omitempty" yaml:"total_length,omitempty"`
	Intervals   []Item  `json:"intervals"              yaml:"intervals"`
}

// New builds a document from an edited sequence.
func New(seq linear.Sequence[Fields], totalLength float64) *Document {
	items := make([]Item, len(seq))
	for i, iv := range seq {
		items[i] = ItemOf(iv)
	}

	return &Document{TotalLength: totalLength, Intervals: items}
}

// Sequence returns the intervals as an editor sequence.
func (d *Document) Sequence() linear.Sequence[Fields] {
	seq := make(linear.Sequence[Fields], len(d.Intervals))
	for i, it := range d.Intervals {
		seq[i] = it.Interval()
	}

	return seq
}

// Length returns the declared total length, falling back to the end of the
// last interval.
func (d *Document) Length() float64 {
	if d.TotalLength > 0 {
		return d.TotalLength
	}

	if len(d.Intervals) == 0 {
		return 0
	}

	return d.Intervals[len(d.Intervals)-1].End
}
