// Package edit applies sequence edits to stored documents. It is the single
// entry point used by the CLI, the HTTP API and the MCP server, and it owns
// the tracing, logging and metrics around each edit.
package edit

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

// Operation names, shared by spans, metrics and logs.
const (
	OpResize   = "resize"
	OpRepair   = "repair"
	OpSplit    = "split"
	OpMerge    = "merge"
	OpValidate = "validate"
)

const spanPrefix = "edit."

// Deps holds optional collaborators. Zero values disable the concern.
type Deps struct {
	Tracer  trace.Tracer
	Metrics *observability.EditMetrics
	Logger  *slog.Logger
}

// Service runs edits with a fixed set of default options.
type Service struct {
	opts    linear.Options
	tracer  trace.Tracer
	metrics *observability.EditMetrics
	logger  *slog.Logger
}

// NewService creates a Service. opts are the defaults; requests may
// override some of them.
func NewService(opts linear.Options, deps Deps) *Service {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		opts:    opts,
		tracer:  tracer,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// Options returns the default edit options.
func (s *Service) Options() linear.Options {
	return s.opts
}

// ResizeRequest moves one edge of one interval. Exactly one of Delta and
// Position must be set.
type ResizeRequest struct {
	Document             *document.Document `json:"document"`
	Delta                *float64           `json:"delta,omitempty"`
	Position             *float64           `json:"position,omitempty"`
	AllowResizeNeighbour *bool              `json:"allow_resize_neighbour,omitempty"`
	Edge                 string             `json:"edge"`
	Index                int                `json:"index"`
}

// RepairRequest repairs a document, optionally against a new total length.
type RepairRequest struct {
	Document       *document.Document `json:"document"`
	TotalLength    *float64           `json:"total_length,omitempty"`
	KeepZeroLength *bool              `json:"keep_zero_length,omitempty"`
	Epsilon        *float64           `json:"epsilon,omitempty"`
}

// SplitRequest cuts the document at a position. Selected is the caller's
// current selection.
type SplitRequest struct {
	Document *document.Document `json:"document"`
	At       float64            `json:"at"`
	Selected int                `json:"selected"`
}

// MergeRequest merges an interval with its previous or next neighbour.
type MergeRequest struct {
	Document  *document.Document `json:"document"`
	Direction string             `json:"direction"`
	Index     int                `json:"index"`
}

// Result is the outcome of an edit.
type Result struct {
	// Document is the repaired document.
	Document *document.Document `json:"document"`
	// Mapping sends input interval indices to output indices, -1 for removed.
	Mapping linear.Mapping `json:"mapping"`
	// Selected is where the selection pointer moved.
	Selected int `json:"selected"`
	// Removed counts input intervals that did not survive.
	Removed int `json:"removed"`
	// Clamped is set when a resize stopped short of the requested position.
	Clamped bool `json:"clamped,omitempty"`
}

// Resize applies a ResizeRequest.
func (s *Service) Resize(ctx context.Context, req ResizeRequest) (*Result, error) {
	return s.run(ctx, OpResize, func(context.Context) (*Result, error) {
		seq, total, err := validInput(req.Document)
		if err != nil {
			return nil, err
		}

		if (req.Delta == nil) == (req.Position == nil) {
			return nil, ErrMissingDelta
		}

		edge, err := linear.ParseEdge(req.Edge)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEdge, err)
		}

		opts := s.opts
		if req.AllowResizeNeighbour != nil {
			opts.AllowResizeNeighbour = *req.AllowResizeNeighbour
		}

		lo, hi, err := linear.Reach(seq, req.Index, edge, opts.AllowResizeNeighbour)
		if err != nil {
			return nil, err
		}

		editor := linear.NewEditor[document.Fields](opts)

		var (
			out       linear.Edit[document.Fields]
			requested float64
		)

		if req.Position != nil {
			requested = *req.Position
			out, err = editor.MoveEdge(seq, req.Index, edge, requested)
		} else {
			requested = seq[req.Index].Edge(edge) + *req.Delta
			out, err = editor.Resize(seq, req.Index, *req.Delta, edge)
		}

		if err != nil {
			return nil, err
		}

		res := newResult(out, total)
		res.Clamped = requested < lo || requested > hi

		return res, nil
	})
}

// Repair applies a RepairRequest.
func (s *Service) Repair(ctx context.Context, req RepairRequest) (*Result, error) {
	return s.run(ctx, OpRepair, func(context.Context) (*Result, error) {
		if req.Document == nil {
			return nil, ErrMissingDocument
		}

		total := req.Document.Length()
		if req.TotalLength != nil {
			total = *req.TotalLength
		}

		opts := s.opts
		if req.KeepZeroLength != nil {
			opts.KeepZeroLength = *req.KeepZeroLength
		}

		if req.Epsilon != nil {
			opts.Epsilon = *req.Epsilon
		}

		out, err := linear.NewEditor[document.Fields](opts).Repair(req.Document.Sequence(), total)
		if err != nil {
			return nil, err
		}

		return newResult(out, total), nil
	})
}

// Split applies a SplitRequest.
func (s *Service) Split(ctx context.Context, req SplitRequest) (*Result, error) {
	return s.run(ctx, OpSplit, func(context.Context) (*Result, error) {
		seq, total, err := validInput(req.Document)
		if err != nil {
			return nil, err
		}

		out, err := linear.NewEditor[document.Fields](s.opts).Split(seq, req.Selected, req.At)
		if err != nil {
			return nil, err
		}

		return newResult(out, total), nil
	})
}

// Merge applies a MergeRequest.
func (s *Service) Merge(ctx context.Context, req MergeRequest) (*Result, error) {
	return s.run(ctx, OpMerge, func(context.Context) (*Result, error) {
		seq, total, err := validInput(req.Document)
		if err != nil {
			return nil, err
		}

		dir, err := linear.ParseDirection(req.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownDirection, err)
		}

		out, err := linear.NewEditor[document.Fields](s.opts).Merge(seq, req.Index, dir)
		if err != nil {
			return nil, err
		}

		return newResult(out, total), nil
	})
}

// Validate reports the first broken invariant of doc, or nil.
func (s *Service) Validate(ctx context.Context, doc *document.Document) error {
	ctx, span := s.startSpan(ctx, OpValidate)
	defer span.End()

	_, _, err := validInput(doc)
	if err != nil {
		s.fail(ctx, span, OpValidate, err)

		return err
	}

	return nil
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) (*Result, error)) (*Result, error) {
	ctx, span := s.startSpan(ctx, op)
	defer span.End()

	res, err := fn(ctx)
	if err != nil {
		s.fail(ctx, span, op, err)

		return nil, err
	}

	intervals := len(res.Document.Intervals)

	span.SetAttributes(
		attribute.Int("edit.intervals", intervals),
		attribute.Int("edit.removed", res.Removed),
		attribute.Int("edit.selected", res.Selected),
		attribute.Bool("edit.clamped", res.Clamped),
	)

	if s.metrics != nil {
		s.metrics.Record(ctx, observability.EditOutcome{
			Op:        op,
			Removed:   res.Removed,
			Clamped:   res.Clamped,
			Intervals: intervals,
		})
	}

	s.logger.DebugContext(ctx, "edit applied",
		"op", op,
		"intervals", intervals,
		"removed", res.Removed,
		"selected", res.Selected,
		"clamped", res.Clamped,
	)

	return res, nil
}

func (s *Service) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, spanPrefix+op, trace.WithAttributes(attribute.String("edit.op", op)))
}

func (s *Service) fail(ctx context.Context, span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	level := slog.LevelError
	if IsInvalidInput(err) {
		level = slog.LevelWarn
	}

	s.logger.Log(ctx, level, "edit rejected", "op", op, "error", err)
}

// validInput returns the sequence of doc and its total length, or an error
// if doc is missing or breaks an invariant.
func validInput(doc *document.Document) (linear.Sequence[document.Fields], float64, error) {
	if doc == nil {
		return nil, 0, ErrMissingDocument
	}

	seq := doc.Sequence()
	total := doc.Length()

	err := linear.Validate(seq, total)
	if err != nil {
		return nil, 0, err
	}

	return seq, total, nil
}

func newResult(out linear.Edit[document.Fields], total float64) *Result {
	removed := 0

	for _, idx := range out.Mapping {
		if idx == linear.Removed {
			removed++
		}
	}

	return &Result{
		Document: document.New(out.Sequence, total),
		Mapping:  out.Mapping,
		Selected: out.Selected,
		Removed:  removed,
	}
}
