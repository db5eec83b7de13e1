package linear_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/linseg/pkg/linear"
)

type tags []string

func (t tags) Clone() tags {
	return slices.Clone(t)
}

// TestSplit verifies cutting an interval in two.
func TestSplit(t *testing.T) {
	t.Parallel()

	out, mapping, err := linear.Split(threeSections(), 5)
	require.NoError(t, err)

	assert.Equal(t, linear.Sequence[string]{
		iv(0, 5, "a"), iv(5, 10, "a"), iv(10, 15, "b"), iv(15, 20, "c"),
	}, out)
	assert.Equal(t, linear.Mapping{0, 2, 3}, mapping)
	require.NoError(t, linear.Validate(out, testTotalLength))
}

// TestSplit_OnBoundary verifies that splitting on an existing boundary is a
// no-op.
func TestSplit_OnBoundary(t *testing.T) {
	t.Parallel()

	out, mapping, err := linear.Split(threeSections(), 10)
	require.NoError(t, err)
	assert.Equal(t, threeSections(), out)
	assert.Equal(t, linear.Identity(3), mapping)
}

// TestSplit_OutOfRange verifies split position validation.
func TestSplit_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, at := range []float64{0, testTotalLength, -1, 25, math.NaN()} {
		_, _, err := linear.Split(threeSections(), at)
		require.ErrorIs(t, err, linear.ErrInvalidArgument)
	}

	_, _, err := linear.Split(linear.Sequence[string]{}, 1)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)
}

// TestSplit_ClonesPayload verifies that both halves get their own payload when
// the payload knows how to clone itself.
func TestSplit_ClonesPayload(t *testing.T) {
	t.Parallel()

	seq := linear.Sequence[tags]{{Begin: 0, End: 10, Payload: tags{"x"}}}

	out, _, err := linear.Split(seq, 4)
	require.NoError(t, err)
	require.Len(t, out, 2)

	out[1].Payload[0] = "y"

	assert.Equal(t, tags{"x"}, out[0].Payload)
	assert.Equal(t, tags{"x"}, seq[0].Payload)
}

// TestMerge verifies joining an interval with its neighbours.
func TestMerge(t *testing.T) {
	t.Parallel()

	out, mapping, err := linear.Merge(threeSections(), 0, linear.Next)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 15, "a"), iv(15, 20, "c")}, out)
	assert.Equal(t, linear.Mapping{0, r, 1}, mapping)

	out, mapping, err = linear.Merge(threeSections(), 2, linear.Previous)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 10, "a"), iv(10, 20, "c")}, out)
	assert.Equal(t, linear.Mapping{0, r, 1}, mapping)

	out, mapping, err = linear.Merge(threeSections(), 1, linear.Previous)
	require.NoError(t, err)
	assert.Equal(t, linear.Sequence[string]{iv(0, 15, "b"), iv(15, 20, "c")}, out)
	assert.Equal(t, linear.Mapping{r, 0, 1}, mapping)
}

// TestMerge_InvalidArguments verifies merge validation.
func TestMerge_InvalidArguments(t *testing.T) {
	t.Parallel()

	_, _, err := linear.Merge(threeSections(), 0, linear.Previous)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	_, _, err = linear.Merge(threeSections(), 2, linear.Next)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	_, _, err = linear.Merge(threeSections(), 3, linear.Previous)
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	_, _, err = linear.Merge(threeSections(), 1, "sideways")
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	_, err = linear.ParseDirection("up")
	require.ErrorIs(t, err, linear.ErrInvalidArgument)

	dir, err := linear.ParseDirection("next")
	require.NoError(t, err)
	assert.Equal(t, linear.Next, dir)
}

// TestValidate verifies that each broken invariant is reported.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, linear.Validate(threeSections(), testTotalLength))

	broken := map[string]struct {
		seq   linear.Sequence[string]
		total float64
	}{
		"non-positive length": {seq: threeSections(), total: 0},
		"empty":               {seq: nil, total: testTotalLength},
		"first not at zero":   {seq: linear.Sequence[string]{iv(1, 20, "a")}, total: testTotalLength},
		"reversed":            {seq: linear.Sequence[string]{iv(0, 10, "a"), iv(10, 5, "b")}, total: testTotalLength},
		"unsorted":            {seq: linear.Sequence[string]{iv(0, 10, "a"), iv(-5, 0, "b")}, total: testTotalLength},
		"gap":                 {seq: linear.Sequence[string]{iv(0, 9, "a"), iv(10, 20, "b")}, total: testTotalLength},
		"short":               {seq: linear.Sequence[string]{iv(0, 10, "a"), iv(10, 19, "b")}, total: testTotalLength},
	}

	for name, tc := range broken {
		err := linear.Validate(tc.seq, tc.total)
		require.ErrorIs(t, err, linear.ErrInvalidSequence, name)
	}
}
