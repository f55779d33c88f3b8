// Package mcp implements a Model Context Protocol server exposing astforge
// printing and validation as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
	"github.com/Sumatoshi-tech/astforge/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "astforge"

	// toolCount is the expected number of registered tools.
	toolCount = 3

	// defaultPackage is the package clause used in file mode when none is given.
	defaultPackage = "main"
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// PrintMetrics is an optional print statistics recorder.
	PrintMetrics *observability.PrintMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Options are the base printer options; per-call overrides apply on top.
	// The zero value selects printer.DefaultOptions.
	Options *printer.Options

	// Package is the default package clause in file mode.
	Package string

	// MaxInputBytes bounds the encoded size of a serialized document.
	// Zero selects MaxNodesInputBytes.
	MaxInputBytes int64
}

// Server wraps the MCP SDK server with astforge tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
	tooling *toolset
}

// NewServer creates a new MCP server with all astforge tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Get().Version,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		tooling: newToolset(deps),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all astforge MCP tools to the server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNamePrint,
		Description: printToolDescription,
	}, withMetrics(s.metrics, ToolNamePrint, withTracing(s.tracer, ToolNamePrint, s.tooling.handlePrint)))
	s.trackTool(ToolNamePrint)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameValidate,
		Description: validateToolDescription,
	}, withMetrics(s.metrics, ToolNameValidate, withTracing(s.tracer, ToolNameValidate, s.tooling.handleValidate)))
	s.trackTool(ToolNameValidate)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameOperations,
		Description: operationsToolDescription,
	}, withMetrics(s.metrics, ToolNameOperations, withTracing(s.tracer, ToolNameOperations, handleOperations)))
	s.trackTool(ToolNameOperations)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String(observability.AttrMCPTool, toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		span.SetAttributes(attribute.Bool(observability.AttrMCPToolError, err != nil || (result != nil && result.IsError)))

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	printToolDescription = "Print Go source code from a serialized syntax tree. " +
		"Accepts the JSON node document (a node object or an array of nodes), " +
		"an output mode (node, nodes, file, list) and optional style overrides."

	validateToolDescription = "Validate a serialized syntax tree document against the node schema " +
		"and check that every node deserializes, without printing."

	operationsToolDescription = "List the node-construction operations accepted in factory nodes, " +
		"with their category and argument counts."
)
