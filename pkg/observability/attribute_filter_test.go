package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

func spanAttrMap(span tracetest.SpanStub) map[string]any {
	out := make(map[string]any, len(span.Attributes))
	for _, kv := range span.Attributes {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}

	return out
}

func newFilteredTracer(t *testing.T, logger *slog.Logger) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return tp, exporter
}

func TestAttributeFilter_ExportsInstrumentationKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"astforge.print.bytes",
		"astforge.print.mode",
		"astforge.print.nodes",
		"error.type",
		"http.request.method",
		"http.response.status_code",
		"http.target",
		"mcp.tool",
		"mcp.tool.error",
	}, observability.ExportedAttributeKeys())

	tp, exporter := newFilteredTracer(t, nil)

	_, span := tp.Tracer("test").Start(context.Background(), "printer.print")
	span.SetAttributes(
		attribute.String(observability.AttrPrintMode, "file"),
		attribute.Int(observability.AttrPrintNodes, 3),
		attribute.Int(observability.AttrPrintBytes, 42),
		attribute.String(observability.AttrMCPTool, "astforge_print"),
		attribute.Bool(observability.AttrMCPToolError, false),
		attribute.String(observability.AttrErrorType, "timeout"),
		attribute.String(observability.AttrHTTPTarget, "/api/print"),
		attribute.String("http.request.method", "POST"),
		attribute.Int("http.response.status_code", 200),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.Len(t, attrs, 9)
	assert.Equal(t, "file", attrs["astforge.print.mode"])
	assert.Equal(t, int64(3), attrs["astforge.print.nodes"])
	assert.Equal(t, int64(42), attrs["astforge.print.bytes"])
	assert.Equal(t, "astforge_print", attrs["mcp.tool"])
	assert.Equal(t, false, attrs["mcp.tool.error"])
	assert.Equal(t, int64(200), attrs["http.response.status_code"])
}

func TestAttributeFilter_BlocksPIIAndUnknown(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, nil))
	tp, exporter := newFilteredTracer(t, logger)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("user.email", "alice@example.com"),
		attribute.String("email", "bob@example.com"),
		attribute.String("request.body", `{"kind":"createIdentifier"}`),
		attribute.String("source.text", "func main() {}"),
		attribute.String("astforge.print.output", "package main"),
		attribute.String("error.type", "internal"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.Len(t, attrs, 1)
	assert.Equal(t, "internal", attrs["error.type"])
	assert.Contains(t, logs.String(), "attribute blocked by filter")
	assert.Contains(t, logs.String(), "source.text")
}

func TestAttributeFilter_FlushAndShutdown(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil)

	require.NoError(t, filter.ForceFlush(context.Background()))
	require.NoError(t, filter.Shutdown(context.Background()))
}
