package linear_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/linseg/pkg/linear"
)

// TestEditor_Resize verifies that the editor repairs and composes mappings.
func TestEditor_Resize(t *testing.T) {
	t.Parallel()

	cascading := linear.NewEditor[string](linear.Options{AllowResizeNeighbour: true})

	edit, err := cascading.Resize(threeSections(), 0, 8, linear.EdgeEnd)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 18, "a"), iv(18, 20, "c")}, edit.Sequence)
	assert.Equal(t, linear.Mapping{0, r, 1}, edit.Mapping)
	assert.Equal(t, 0, edit.Selected)

	strict := linear.NewEditor[string](linear.Options{})

	edit, err = strict.Resize(threeSections(), 0, 8, linear.EdgeEnd)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 15, "a"), iv(15, 20, "c")}, edit.Sequence)
	assert.Equal(t, linear.Mapping{0, r, 1}, edit.Mapping)

	keeping := linear.NewEditor[string](linear.Options{KeepZeroLength: true})

	edit, err = keeping.Resize(threeSections(), 0, 8, linear.EdgeEnd)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 15, "a"), iv(15, 15, "b"), iv(15, 20, "c")}, edit.Sequence)
	assert.Equal(t, linear.Identity(3), edit.Mapping)
}

// TestEditor_SelectionFollowsEdit verifies where the selection lands when the
// selected interval moves or disappears.
func TestEditor_SelectionFollowsEdit(t *testing.T) {
	t.Parallel()

	editor := linear.NewEditor[string](linear.Options{})

	// A filler interval is created in front of the first one.
	edit, err := editor.MoveEdge(threeSections(), 0, linear.EdgeBegin, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, edit.Selected)
	assert.Equal(t, iv(0, 4, ""), edit.Sequence[0])

	// The selected interval shrinks to nothing and repair drops it.
	edit, err = editor.Resize(threeSections(), 1, -5, linear.EdgeEnd)
	require.NoError(t, err)
	assert.Equal(t, linear.Mapping{0, r, 1}, edit.Mapping)
	assert.Equal(t, 0, edit.Selected)
	assert.Equal(t, linear.Sequence[string]{iv(0, 10, "a"), iv(10, 20, "c")}, edit.Sequence)
}

// TestEditor_MoveEdge verifies absolute edge moves.
func TestEditor_MoveEdge(t *testing.T) {
	t.Parallel()

	editor := linear.NewEditor[string](linear.Options{AllowResizeNeighbour: true})

	edit, err := editor.MoveEdge(threeSections(), 0, linear.EdgeEnd, 18)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 18, "a"), iv(18, 20, "c")}, edit.Sequence)

	_, err = editor.MoveEdge(threeSections(), 4, linear.EdgeEnd, 18)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	_, err = editor.MoveEdge(threeSections(), 0, "side", 18)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	decimal := linear.Sequence[string]{iv(0, 0.2, "a"), iv(0.2, 0.9, "b"), iv(0.9, 1, "c")}

	edit, err = editor.MoveEdge(decimal, 0, linear.EdgeEnd, 0.9)
	require.NoError(t, err)
	assert.Equal(t, linear.Mapping{0, r, 1}, edit.Mapping)
	assert.Equal(t, linear.Sequence[string]{iv(0, 0.9, "a"), iv(0.9, 1, "c")}, edit.Sequence)
}

// TestEditor_SplitAndMerge verifies the supplementary tools.
func TestEditor_SplitAndMerge(t *testing.T) {
	t.Parallel()

	editor := linear.NewEditor[string](linear.Options{})

	edit, err := editor.Split(threeSections(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, edit.Sequence, 4)
	assert.Equal(t, 2, edit.Selected)

	edit, err = editor.Merge(threeSections(), 1, linear.Previous)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 15, "b"), iv(15, 20, "c")}, edit.Sequence)
	assert.Equal(t, 0, edit.Selected)
}

// TestEditor_Repair verifies repairing through the editor.
func TestEditor_Repair(t *testing.T) {
	t.Parallel()

	editor := linear.NewEditor[string](linear.Options{})

	edit, err := editor.Repair(linear.Sequence[string]{iv(0, 10, "a"), iv(10, 10, "b"), iv(10, 25, "c")}, testTotalLength)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 10, "a"), iv(10, 20, "c")}, edit.Sequence)
	assert.Equal(t, linear.Mapping{0, r, 1}, edit.Mapping)

	_, err = editor.Repair(nil, testTotalLength)
	require.ErrorIs(t, err, linear.ErrInvalidSequence)
}
