package linear

// Removed marks a pre-edit index whose interval no longer exists.
const Removed = -1

// Mapping sends every pre-edit index to its post-edit index, or to Removed.
type Mapping []int

// Identity returns the mapping that leaves n indices in place.
func Identity(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = i
	}

	return m
}

// Lookup returns the post-edit index of old. The boolean is false when old is
// out of range or its interval was removed.
func (m Mapping) Lookup(old int) (int, bool) {
	if old < 0 || old >= len(m) || m[old] == Removed {
		return Removed, false
	}

	return m[old], true
}

// Compose chains m with a mapping produced by a later edit.
func (m Mapping) Compose(next Mapping) Mapping {
	out := make(Mapping, len(m))

	for i, mid := range m {
		out[i] = Removed

		if idx, ok := next.Lookup(mid); ok {
			out[i] = idx
		}
	}

	return out
}

// Follow returns the index a selection pointer should move to after the edit.
// A surviving interval keeps its selection. If the selected interval was
// removed, the first interval is selected when the removed one was first;
// otherwise the nearest surviving neighbour is selected, the earlier one on a
// tie. Follow returns 0 when nothing survived.
func (m Mapping) Follow(selected int) int {
	if idx, ok := m.Lookup(selected); ok {
		return idx
	}

	if selected <= 0 || selected >= len(m) {
		return 0
	}

	for dist := 1; dist < len(m); dist++ {
		if idx, ok := m.Lookup(selected - dist); ok {
			return idx
		}

		if idx, ok := m.Lookup(selected + dist); ok {
			return idx
		}
	}

	return 0
}
