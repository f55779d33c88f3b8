package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/render"
	"github.com/Sumatoshi-tech/astforge/pkg/wire"
)

// PrintRequest is the body of POST /api/print.
type PrintRequest struct {
	Options  *render.Overrides `json:"options,omitempty"`
	Mode     string            `json:"mode,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Package  string            `json:"package,omitempty"`
	Nodes    json.RawMessage   `json:"nodes"`
	Validate bool              `json:"validate,omitempty"`
}

// PrintResponse is the body returned by POST /api/print.
type PrintResponse struct {
	Code  string `json:"code"`
	Error string `json:"error,omitempty"`
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Mode  string          `json:"mode,omitempty"`
	Kind  string          `json:"kind,omitempty"`
	Nodes json.RawMessage `json:"nodes"`
}

// ValidateResponse is the body returned by POST /api/validate.
type ValidateResponse struct {
	Errors []string `json:"errors,omitempty"`
	Valid  bool     `json:"valid"`
}

// ErrMissingNodes is returned when a request body carries no nodes.
var ErrMissingNodes = errors.New("nodes is required")

// ErrNotReady is reported by /readyz when the print pipeline cannot start.
var ErrNotReady = errors.New("print pipeline not ready")

// readyOperation is an operation every document needs.
const readyOperation = "createIdentifier"

// printReady checks that the Go grammar loads and the operation table is
// built, then runs the style engine over a one-line statement.
func printReady(ctx context.Context) error {
	engine, err := lint.New(lint.DefaultConfig())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	if _, err = engine.Verify(ctx, "x := 1\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	if _, ok := factory.Lookup(readyOperation); !ok {
		return fmt.Errorf("%w: operation table lacks %s", ErrNotReady, readyOperation)
	}

	return nil
}

// apiDeps are the collaborators of the HTTP API.
type apiDeps struct {
	logger       *slog.Logger
	tracer       trace.Tracer
	red          *observability.REDMetrics
	printMetrics *observability.PrintMetrics
	metrics      http.Handler
	options      printer.Options
	readyChecks  []observability.ReadyCheck
	pkg          string
	maxBytes     int64
}

// api serves the astforge HTTP endpoints.
type api struct {
	deps apiDeps
}

// newAPIHandler builds the routed, traced HTTP handler.
func newAPIHandler(deps apiDeps) http.Handler {
	if deps.logger == nil {
		deps.logger = slog.Default()
	}

	if deps.readyChecks == nil {
		deps.readyChecks = []observability.ReadyCheck{printReady}
	}

	if deps.tracer == nil {
		deps.tracer = noop.NewTracerProvider().Tracer("astforge")
	}

	srv := &api{deps: deps}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/print", srv.handlePrint)
	mux.HandleFunc("POST /api/validate", srv.handleValidate)
	mux.HandleFunc("GET /api/operations", srv.handleOperations)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(deps.readyChecks...))

	if deps.metrics != nil {
		mux.Handle("GET /metrics", deps.metrics)
	}

	return observability.HTTPMiddleware(deps.tracer, deps.red, mux)
}

func (s *api) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req PrintRequest

	if !s.decodeBody(w, r, &req) {
		return
	}

	if len(req.Nodes) == 0 {
		s.writeJSON(w, r, http.StatusBadRequest, PrintResponse{Error: ErrMissingNodes.Error()})

		return
	}

	if req.Validate {
		err := wire.Validate(req.Nodes)
		if err != nil {
			s.writeJSON(w, r, statusFor(err), PrintResponse{Error: err.Error()})

			return
		}
	}

	renderReq, err := render.Decode(req.Nodes, req.Mode, req.Kind)
	if err != nil {
		s.writeJSON(w, r, statusFor(err), PrintResponse{Error: err.Error()})

		return
	}

	renderReq.Package = req.Package
	if renderReq.Package == "" {
		renderReq.Package = s.deps.pkg
	}

	opts := s.deps.options
	if req.Options != nil {
		opts = req.Options.Apply(opts)
	}

	if err = opts.Validate(); err != nil {
		s.writeJSON(w, r, statusFor(err), PrintResponse{Error: err.Error()})

		return
	}

	p := printer.New(opts, printer.WithLogger(s.deps.logger), printer.WithTracer(s.deps.tracer))
	rd := render.New(p, render.WithLogger(s.deps.logger), render.WithMetrics(s.deps.printMetrics))

	code, err := rd.Render(r.Context(), renderReq)
	if err != nil {
		s.writeJSON(w, r, statusFor(err), PrintResponse{Error: err.Error()})

		return
	}

	s.writeJSON(w, r, http.StatusOK, PrintResponse{Code: code})
}

func (s *api) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest

	if !s.decodeBody(w, r, &req) {
		return
	}

	if len(req.Nodes) == 0 {
		s.writeJSON(w, r, http.StatusBadRequest, ValidateResponse{Errors: []string{ErrMissingNodes.Error()}})

		return
	}

	var verr *wire.ValidationError

	err := wire.Validate(req.Nodes)
	if errors.As(err, &verr) {
		out := ValidateResponse{Errors: make([]string, 0, len(verr.Errors))}
		for _, se := range verr.Errors {
			out.Errors = append(out.Errors, se.Field+": "+se.Description)
		}

		s.writeJSON(w, r, http.StatusOK, out)

		return
	}

	if err == nil {
		var renderReq render.Request

		renderReq, err = render.Decode(req.Nodes, req.Mode, req.Kind)
		if err == nil {
			err = render.New(printer.New(s.deps.options)).Check(renderReq)
		}
	}

	if err != nil {
		s.writeJSON(w, r, http.StatusOK, ValidateResponse{Errors: []string{err.Error()}})

		return
	}

	s.writeJSON(w, r, http.StatusOK, ValidateResponse{Valid: true})
}

func (s *api) handleOperations(w http.ResponseWriter, r *http.Request) {
	ops := filterOperations(factory.Operations(), r.URL.Query().Get("category"))

	s.writeJSON(w, r, http.StatusOK, ops)
}

// decodeBody reads a JSON body capped at the configured input size. It
// writes the error response itself and reports whether decoding succeeded.
func (s *api) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if s.deps.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.deps.maxBytes)
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	status := http.StatusBadRequest

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	http.Error(w, "Invalid request body", status)

	return false
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	var style *printer.StyleViolationError

	switch {
	case errors.As(err, &style):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wire.ErrSchemaViolation),
		errors.Is(err, wire.ErrUnknownNodeType),
		errors.Is(err, wire.ErrMalformedNode),
		errors.Is(err, wire.ErrEmptyDocument),
		errors.Is(err, factory.ErrUnknownFactoryMethod),
		errors.Is(err, factory.ErrTypeMismatch),
		errors.Is(err, factory.ErrArity),
		errors.Is(err, factory.ErrArgumentType),
		errors.Is(err, factory.ErrInvalidNumber),
		errors.Is(err, render.ErrInvalidMode),
		errors.Is(err, render.ErrInvalidKind),
		errors.Is(err, render.ErrNodeCount),
		errors.Is(err, lint.ErrInvalidConfig),
		errors.Is(err, printer.ErrUnprintable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes value as the response body.
func (s *api) writeJSON(w http.ResponseWriter, r *http.Request, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		s.deps.logger.ErrorContext(r.Context(), "failed to encode JSON response", "error", err)
	}
}
