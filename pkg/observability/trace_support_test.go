package observability_test

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

func traceIDFrom(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}

	return sc.TraceID().String()
}
