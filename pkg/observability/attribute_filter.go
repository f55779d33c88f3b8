package observability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Span attribute keys set by astforge instrumentation.
const (
	AttrPrintMode    = "astforge.print.mode"
	AttrPrintNodes   = "astforge.print.nodes"
	AttrPrintBytes   = "astforge.print.bytes"
	AttrMCPTool      = "mcp.tool"
	AttrMCPToolError = "mcp.tool.error"
	AttrHTTPTarget   = "http.target"
	AttrErrorType    = "error.type"
)

// exportedKeys are the only span attributes sent to the collector. Span
// attributes never carry request documents or printed source.
var exportedKeys = map[attribute.Key]bool{
	AttrPrintMode:                     true,
	AttrPrintNodes:                    true,
	AttrPrintBytes:                    true,
	AttrMCPTool:                       true,
	AttrMCPToolError:                  true,
	AttrHTTPTarget:                    true,
	AttrErrorType:                     true,
	semconv.HTTPRequestMethodKey:      true,
	semconv.HTTPResponseStatusCodeKey: true,
}

// ExportedAttributeKeys lists the keys the filter lets through, sorted.
func ExportedAttributeKeys() []string {
	keys := make([]string, 0, len(exportedKeys))
	for k := range exportedKeys {
		keys = append(keys, string(k))
	}

	slices.Sort(keys)

	return keys
}

// attributeFilter drops every span attribute outside exportedKeys before
// handing the span to the delegate.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate. A non-nil logger receives one warning
// per dropped attribute.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, keep: f.keep(s.Attributes())})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) keep(attrs []attribute.KeyValue) []attribute.KeyValue {
	kept := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		if exportedKeys[kv.Key] {
			kept = append(kept, kv)

			continue
		}

		if f.logger != nil {
			f.logger.Warn("attribute blocked by filter", "key", string(kv.Key))
		}
	}

	return kept
}

// filteredSpan is a ReadOnlySpan with its attributes replaced.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	keep []attribute.KeyValue
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	return s.keep
}
