// Package server exposes the edit service as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/linseg/pkg/document"
	"github.com/Sumatoshi-tech/linseg/pkg/edit"
	"github.com/Sumatoshi-tech/linseg/pkg/linear"
	"github.com/Sumatoshi-tech/linseg/pkg/observability"
)

// Routes.
const (
	PathResize   = "/v1/resize"
	PathRepair   = "/v1/repair"
	PathSplit    = "/v1/split"
	PathMerge    = "/v1/merge"
	PathValidate = "/v1/validate"
	PathHealth   = "/healthz"
	PathReady    = "/readyz"
	PathMetrics  = "/metrics"
)

const (
	defaultBodyLimit = 4 << 20
	documentKey      = "document"
)

// Request errors.
var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrMalformed    = errors.New("malformed request body")
)

// Deps holds the collaborators of the HTTP handler.
type Deps struct {
	// Service runs the edits. Required.
	Service *edit.Service
	// Tracer creates a span per request. Nil disables tracing.
	Tracer trace.Tracer
	// RED records request metrics. Nil disables them.
	RED *observability.REDMetrics
	// Metrics serves /metrics. Nil leaves the route out.
	Metrics http.Handler
	// ReadyChecks gate /readyz.
	ReadyChecks []observability.ReadyCheck
	// Logger receives request errors. Nil uses slog.Default.
	Logger *slog.Logger
	// BodyLimit caps request bodies in bytes. Zero uses 4 MiB.
	BodyLimit int64
}

type api struct {
	svc       *edit.Service
	logger    *slog.Logger
	bodyLimit int64
}

// ValidateRequest is the body of /v1/validate.
type ValidateRequest struct {
	Document *document.Document `json:"document"`
}

// ValidateResponse is the answer of /v1/validate.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler builds the routed, instrumented HTTP handler.
func NewHandler(deps Deps) http.Handler {
	a := &api{
		svc:       deps.Service,
		logger:    deps.Logger,
		bodyLimit: deps.BodyLimit,
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	if a.bodyLimit <= 0 {
		a.bodyLimit = defaultBodyLimit
	}

	r := mux.NewRouter()
	r.Handle(PathResize, editHandler(a, a.svc.Resize)).Methods(http.MethodPost)
	r.Handle(PathRepair, editHandler(a, a.svc.Repair)).Methods(http.MethodPost)
	r.Handle(PathSplit, editHandler(a, a.svc.Split)).Methods(http.MethodPost)
	r.Handle(PathMerge, editHandler(a, a.svc.Merge)).Methods(http.MethodPost)
	r.HandleFunc(PathValidate, a.handleValidate).Methods(http.MethodPost)
	r.Handle(PathHealth, observability.HealthHandler()).Methods(http.MethodGet)
	r.Handle(PathReady, observability.ReadyHandler(deps.ReadyChecks...)).Methods(http.MethodGet)

	if deps.Metrics != nil {
		r.Handle(PathMetrics, deps.Metrics).Methods(http.MethodGet)
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return observability.HTTPMiddleware(tracer, deps.RED, routeNamer(r), r)
}

// routeNamer names requests by their route template so that unknown paths do
// not blow up span and metric cardinality.
func routeNamer(r *mux.Router) observability.RouteNamer {
	return func(hr *http.Request) string {
		var match mux.RouteMatch

		if !r.Match(hr, &match) || match.Route == nil {
			return "unmatched"
		}

		tpl, err := match.Route.GetPathTemplate()
		if err != nil {
			return "unmatched"
		}

		return tpl
	}
}

func editHandler[Req any](
	a *api, run func(ctx context.Context, req Req) (*edit.Result, error),
) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		var req Req

		err := a.decode(rw, hr, &req)
		if err != nil {
			a.writeError(rw, hr, err)

			return
		}

		res, err := run(hr.Context(), req)
		if err != nil {
			a.writeError(rw, hr, err)

			return
		}

		a.writeJSON(rw, hr, http.StatusOK, res)
	})
}

func (a *api) handleValidate(rw http.ResponseWriter, hr *http.Request) {
	var req ValidateRequest

	err := a.decode(rw, hr, &req)
	if err != nil {
		a.writeError(rw, hr, err)

		return
	}

	err = a.svc.Validate(hr.Context(), req.Document)

	switch {
	case err == nil:
		a.writeJSON(rw, hr, http.StatusOK, ValidateResponse{Valid: true})
	case errors.Is(err, linear.ErrInvalidSequence):
		a.writeJSON(rw, hr, http.StatusOK, ValidateResponse{Error: err.Error()})
	default:
		a.writeError(rw, hr, err)
	}
}

// decode reads a size-limited JSON body, checks its document against the
// schema and decodes it into dst.
func (a *api) decode(rw http.ResponseWriter, hr *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(rw, hr.Body, a.bodyLimit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}

		return fmt.Errorf("read body: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	if doc := gjson.GetBytes(body, documentKey); doc.Exists() {
		err = document.ValidateSchema(doc.Value())
		if err != nil {
			return err
		}
	}

	err = json.Unmarshal(body, dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMalformed), edit.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) writeError(rw http.ResponseWriter, hr *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		a.logger.ErrorContext(hr.Context(), "request failed", "path", hr.URL.Path, "error", err)
	}

	a.writeJSON(rw, hr, code, errorResponse{Error: err.Error()})
}

func (a *api) writeJSON(rw http.ResponseWriter, hr *http.Request, code int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	err := json.NewEncoder(rw).Encode(value)
	if err != nil {
		a.logger.ErrorContext(hr.Context(), "failed to encode JSON response", "error", err)
	}
}
