package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricNodesTotal      = "astforge.print.nodes.total"
	metricOutputBytes     = "astforge.print.output.bytes"
	metricViolationsTotal = "astforge.print.violations.total"

	attrPrintMode = "mode"
)

// outputBucketBoundaries covers a one-token expression up to a few MB file.
var outputBucketBoundaries = []float64{16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

// PrintMetrics holds OTel instruments for printer-specific metrics.
type PrintMetrics struct {
	nodesTotal      metric.Int64Counter
	outputBytes     metric.Int64Histogram
	violationsTotal metric.Int64Counter
}

// PrintStats describes one print request.
type PrintStats struct {
	Mode       string
	Nodes      int
	Bytes      int
	Violations int
}

// NewPrintMetrics creates printer metric instruments from the given meter.
func NewPrintMetrics(mt metric.Meter) (*PrintMetrics, error) {
	nodes, err := mt.Int64Counter(metricNodesTotal,
		metric.WithDescription("Total syntax nodes deserialized for printing"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNodesTotal, err)
	}

	outBytes, err := mt.Int64Histogram(metricOutputBytes,
		metric.WithDescription("Size of printed source text"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(outputBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOutputBytes, err)
	}

	violations, err := mt.Int64Counter(metricViolationsTotal,
		metric.WithDescription("Style violations left after the fix loop"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViolationsTotal, err)
	}

	return &PrintMetrics{
		nodesTotal:      nodes,
		outputBytes:     outBytes,
		violationsTotal: violations,
	}, nil
}

// RecordPrint records the statistics of one print request.
// Safe to call on a nil receiver (no-op).
func (pm *PrintMetrics) RecordPrint(ctx context.Context, stats PrintStats) {
	if pm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrPrintMode, stats.Mode))

	pm.nodesTotal.Add(ctx, int64(stats.Nodes), attrs)
	pm.outputBytes.Record(ctx, int64(stats.Bytes), attrs)

	if stats.Violations > 0 {
		pm.violationsTotal.Add(ctx, int64(stats.Violations), attrs)
	}
}
