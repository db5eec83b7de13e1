package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricEditsTotal       = "linseg.edits.total"
	metricIntervalsRemoved = "linseg.edit.intervals.removed"
	metricClampedTotal     = "linseg.edit.clamped.total"
	metricSequenceSize     = "linseg.edit.sequence.intervals"
)

var sequenceSizeBoundaries = []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 5000}

// EditOutcome summarizes one edit for metrics.
type EditOutcome struct {
	// Op is the operation name (resize, repair, split, merge).
	Op string
	// Removed counts input intervals that did not survive the edit.
	Removed int
	// Clamped is true when the moved edge stopped short of the request.
	Clamped bool
	// Intervals is the size of the resulting sequence.
	Intervals int
}

// EditMetrics holds domain instruments for sequence edits.
type EditMetrics struct {
	editsTotal       metric.Int64Counter
	intervalsRemoved metric.Int64Counter
	clampedTotal     metric.Int64Counter
	sequenceSize     metric.Int64Histogram
}

// NewEditMetrics creates edit instruments from the given meter.
func NewEditMetrics(mt metric.Meter) (*EditMetrics, error) {
	edits, err := mt.Int64Counter(metricEditsTotal,
		metric.WithDescription("Total number of applied edits"),
		metric.WithUnit("{edit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEditsTotal, err)
	}

	removed, err := mt.Int64Counter(metricIntervalsRemoved,
		metric.WithDescription("Intervals removed by edits and repair"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricIntervalsRemoved, err)
	}

	clamped, err := mt.Int64Counter(metricClampedTotal,
		metric.WithDescription("Resizes whose edge was clamped"),
		metric.WithUnit("{edit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricClampedTotal, err)
	}

	size, err := mt.Int64Histogram(metricSequenceSize,
		metric.WithDescription("Number of intervals after an edit"),
		metric.WithUnit("{interval}"),
		metric.WithExplicitBucketBoundaries(sequenceSizeBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSequenceSize, err)
	}

	return &EditMetrics{
		editsTotal:       edits,
		intervalsRemoved: removed,
		clampedTotal:     clamped,
		sequenceSize:     size,
	}, nil
}

// Record adds one edit outcome.
func (em *EditMetrics) Record(ctx context.Context, outcome EditOutcome) {
	attrs := metric.WithAttributes(attribute.String(attrOp, outcome.Op))

	em.editsTotal.Add(ctx, 1, attrs)
	em.sequenceSize.Record(ctx, int64(outcome.Intervals), attrs)

	if outcome.Removed > 0 {
		em.intervalsRemoved.Add(ctx, int64(outcome.Removed), attrs)
	}

	if outcome.Clamped {
		em.clampedTotal.Add(ctx, 1, attrs)
	}
}
