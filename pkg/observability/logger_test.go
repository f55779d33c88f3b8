package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))

	return rec
}

func TestTracingHandler_InjectsSpanContext(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewJSONHandler(&buf, nil), "astforge", "", observability.ModeCLI))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoContext(ctx, "traced")

	rec := decodeRecord(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["span_id"])
	assert.Equal(t, "astforge", rec["service"])
	assert.NotContains(t, rec, "env")
}

func TestTracingHandler_NoSpanNoTraceID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewJSONHandler(&buf, nil), "astforge", "dev", observability.ModeMCP))

	logger.Info("plain")

	rec := decodeRecord(t, &buf)
	assert.NotContains(t, rec, "trace_id")
	assert.Equal(t, "mcp", rec["mode"])
	assert.Equal(t, "dev", rec["env"])
}

func TestTracingHandler_GroupKeepsServiceAtTopLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(observability.NewTracingHandler(
		slog.NewJSONHandler(&buf, nil), "astforge", "", observability.ModeCLI))

	logger.WithGroup("lint").With("rule", "indent").Info("fixed")

	rec := decodeRecord(t, &buf)
	assert.Equal(t, "astforge", rec["service"])

	group, ok := rec["lint"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "indent", group["rule"])
}
