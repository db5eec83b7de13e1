package edit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

const testTotalLength = 20

func item(begin, end float64, name string) document.Item {
	return document.Item{Begin: begin, End: end, Fields: document.Fields{"name": name}}
}

// threeSections returns [0,10) a, [10,15) b, [15,20) c.
func threeSections() *document.Document {
	return &document.Document{
		TotalLength: testTotalLength,
		Intervals:   []document.Item{item(0, 10, "a"), item(10, 15, "b"), item(15, 20, "c")},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func newService() *edit.Service {
	return edit.NewService(linear.Options{AllowResizeNeighbour: true}, edit.Deps{})
}

// TestResize_Cascade verifies the canonical cascade example end to end.
func TestResize_Cascade(t *testing.T) {
	t.Parallel()

	res, err := newService().Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(),
		Index:    0,
		Edge:     "end",
		Delta:    ptr(8.0),
	})
	require.NoError(t, err)

	assert.Equal(t, []document.Item{item(0, 18, "a"), item(18, 20, "c")}, res.Document.Intervals)
	assert.InDelta(t, testTotalLength, res.Document.TotalLength, 0)
	assert.Equal(t, linear.Mapping{0, linear.Removed, 1}, res.Mapping)
	assert.Equal(t, 0, res.Selected)
	assert.Equal(t, 1, res.Removed)
	assert.False(t, res.Clamped)
}

// TestResize_Clamped verifies clamp detection for both neighbour policies.
func TestResize_Clamped(t *testing.T) {
	t.Parallel()

	svc := newService()

	res, err := svc.Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 0, Edge: "end", Delta: ptr(25.0),
	})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, []document.Item{item(0, 20, "a")}, res.Document.Intervals)

	res, err = svc.Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 0, Edge: "end", Delta: ptr(8.0),
		AllowResizeNeighbour: ptr(false),
	})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, []document.Item{item(0, 15, "a"), item(15, 20, "c")}, res.Document.Intervals)
	assert.Equal(t, linear.Mapping{0, linear.Removed, 1}, res.Mapping)

	res, err = svc.Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 0, Edge: "begin", Delta: ptr(-5.0),
	})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, threeSections().Intervals, res.Document.Intervals)
}

// TestResize_Position verifies moving an edge to an absolute position.
func TestResize_Position(t *testing.T) {
	t.Parallel()

	res, err := newService().Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 2, Edge: "begin", Position: ptr(12.0),
	})
	require.NoError(t, err)

	assert.Equal(t, []document.Item{item(0, 10, "a"), item(10, 12, "b"), item(12, 20, "c")}, res.Document.Intervals)
	assert.Equal(t, 2, res.Selected)
}

// TestResize_PositionOnNeighbourEnd verifies that a position equal to the far
// end of a neighbour consumes it when bounds are fractional.
func TestResize_PositionOnNeighbourEnd(t *testing.T) {
	t.Parallel()

	doc := &document.Document{
		TotalLength: 1,
		Intervals:   []document.Item{item(0, 0.2, "a"), item(0.2, 0.9, "b"), item(0.9, 1, "c")},
	}

	res, err := newService().Resize(context.Background(), edit.ResizeRequest{
		Document: doc, Index: 0, Edge: "end", Position: ptr(0.9),
	})
	require.NoError(t, err)

	assert.Equal(t, []document.Item{item(0, 0.9, "a"), item(0.9, 1, "c")}, res.Document.Intervals)
	assert.Equal(t, linear.Mapping{0, linear.Removed, 1}, res.Mapping)
	assert.Equal(t, 1, res.Removed)
	assert.False(t, res.Clamped)
}

// TestResize_Filler verifies that a filler interval without fields appears
// and the selection follows the shrunk interval.
func TestResize_Filler(t *testing.T) {
	t.Parallel()

	res, err := newService().Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 0, Edge: "begin", Delta: ptr(4.0),
	})
	require.NoError(t, err)

	require.Len(t, res.Document.Intervals, 4)
	assert.Equal(t, document.Item{Begin: 0, End: 4}, res.Document.Intervals[0])
	assert.Equal(t, 1, res.Selected)
}

// TestResize_InvalidRequests verifies request validation.
func TestResize_InvalidRequests(t *testing.T) {
	t.Parallel()

	broken := threeSections()
	broken.Intervals[1].Begin = 11

	tests := []struct {
		name string
		req  edit.ResizeRequest
		want error
	}{
		{name: "no document", req: edit.ResizeRequest{Edge: "end", Delta: ptr(1.0)}, want: edit.ErrMissingDocument},
		{name: "no delta", req: edit.ResizeRequest{Document: threeSections(), Edge: "end"}, want: edit.ErrMissingDelta},
		{
			name: "delta and position",
			req:  edit.ResizeRequest{Document: threeSections(), Edge: "end", Delta: ptr(1.0), Position: ptr(3.0)},
			want: edit.ErrMissingDelta,
		},
		{
			name: "unknown edge",
			req:  edit.ResizeRequest{Document: threeSections(), Edge: "middle", Delta: ptr(1.0)},
			want: edit.ErrUnknownEdge,
		},
		{
			name: "index out of range",
			req:  edit.ResizeRequest{Document: threeSections(), Index: 7, Edge: "end", Delta: ptr(1.0)},
			want: linear.ErrInvalidArgument,
		},
		{
			name: "invalid sequence",
			req:  edit.ResizeRequest{Document: broken, Edge: "end", Delta: ptr(1.0)},
			want: linear.ErrInvalidSequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newService().Resize(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, edit.IsInvalidInput(err))
		})
	}
}

// TestRepair verifies repair against the declared and an overridden length.
func TestRepair(t *testing.T) {
	t.Parallel()

	svc := newService()

	doc := &document.Document{Intervals: []document.Item{item(2, 10, "a"), item(9, 21, "b")}}

	res, err := svc.Repair(context.Background(), edit.RepairRequest{Document: doc})
	require.NoError(t, err)
	assert.Equal(t, []document.Item{item(0, 10, "a"), item(10, 21, "b")}, res.Document.Intervals)

	res, err = svc.Repair(context.Background(), edit.RepairRequest{Document: threeSections(), TotalLength: ptr(30.0)})
	require.NoError(t, err)
	assert.Equal(t, []document.Item{item(0, 10, "a"), item(10, 15, "b"), item(15, 30, "c")}, res.Document.Intervals)
	assert.InDelta(t, 30.0, res.Document.TotalLength, 0)

	withEmpty := &document.Document{
		TotalLength: testTotalLength,
		Intervals:   []document.Item{item(0, 10, "a"), item(10, 10, "b"), item(10, 20, "c")},
	}

	res, err = svc.Repair(context.Background(), edit.RepairRequest{Document: withEmpty})
	require.NoError(t, err)
	assert.Len(t, res.Document.Intervals, 2)
	assert.Equal(t, 1, res.Removed)

	res, err = svc.Repair(context.Background(), edit.RepairRequest{Document: withEmpty, KeepZeroLength: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, res.Document.Intervals, 3)

	_, err = svc.Repair(context.Background(), edit.RepairRequest{Document: &document.Document{}})
	require.ErrorIs(t, err, linear.ErrInvalidSequence)

	_, err = svc.Repair(context.Background(), edit.RepairRequest{})
	require.ErrorIs(t, err, edit.ErrMissingDocument)
}

// TestSplitAndMerge verifies the supplementary operations.
func TestSplitAndMerge(t *testing.T) {
	t.Parallel()

	svc := newService()

	res, err := svc.Split(context.Background(), edit.SplitRequest{Document: threeSections(), At: 12, Selected: 2})
	require.NoError(t, err)
	assert.Equal(t, []document.Item{
		item(0, 10, "a"), item(10, 12, "b"), item(12, 15, "b"), item(15, 20, "c"),
	}, res.Document.Intervals)
	assert.Equal(t, 3, res.Selected)

	res.Document.Intervals[2].Fields["name"] = "b2"
	assert.Equal(t, "b", res.Document.Intervals[1].Fields["name"])

	res, err = svc.Merge(context.Background(), edit.MergeRequest{Document: threeSections(), Index: 1, Direction: "next"})
	require.NoError(t, err)
	assert.Equal(t, []document.Item{item(0, 10, "a"), item(10, 20, "b")}, res.Document.Intervals)
	assert.Equal(t, linear.Mapping{0, 1, linear.Removed}, res.Mapping)
	assert.Equal(t, 1, res.Selected)

	_, err = svc.Merge(context.Background(), edit.MergeRequest{Document: threeSections(), Index: 1, Direction: "up"})
	require.ErrorIs(t, err, edit.ErrUnknownDirection)

	_, err = svc.Split(context.Background(), edit.SplitRequest{Document: threeSections(), At: 20})
	require.ErrorIs(t, err, linear.ErrInvalidArgument)
}

// TestValidate verifies invariant reporting.
func TestValidate(t *testing.T) {
	t.Parallel()

	svc := newService()

	require.NoError(t, svc.Validate(context.Background(), threeSections()))

	gap := threeSections()
	gap.Intervals[2].Begin = 16
	require.ErrorIs(t, svc.Validate(context.Background(), gap), linear.ErrInvalidSequence)

	short := threeSections()
	short.TotalLength = 25
	require.ErrorIs(t, svc.Validate(context.Background(), short), linear.ErrInvalidSequence)

	require.ErrorIs(t, svc.Validate(context.Background(), nil), edit.ErrMissingDocument)
}

// TestService_Telemetry verifies spans, metrics and logs around edits.
func TestService_Telemetry(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		require.NoError(t, tp.Shutdown(context.Background()))
		require.NoError(t, mp.Shutdown(context.Background()))
	})

	metrics, err := observability.NewEditMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var logs bytes.Buffer

	svc := edit.NewService(linear.Options{AllowResizeNeighbour: true}, edit.Deps{
		Tracer:  tp.Tracer("test"),
		Metrics: metrics,
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	_, err = svc.Resize(context.Background(), edit.ResizeRequest{
		Document: threeSections(), Index: 0, Edge: "end", Delta: ptr(8.0),
	})
	require.NoError(t, err)

	_, err = svc.Merge(context.Background(), edit.MergeRequest{Document: threeSections(), Index: 0, Direction: "previous"})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "edit.resize", spans[0].Name)
	assert.Equal(t, "edit.merge", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := make([]string, 0, len(rm.ScopeMetrics[0].Metrics))
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names = append(names, m.Name)
	}

	assert.Contains(t, names, "linseg.edits.total")
	assert.Contains(t, names, "linseg.edit.intervals.removed")

	assert.Contains(t, logs.String(), "edit applied")
	assert.Contains(t, logs.String(), "edit rejected")
	assert.Contains(t, logs.String(), "level=WARN")
}
