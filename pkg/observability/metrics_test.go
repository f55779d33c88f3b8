package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)
	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "print", observability.StatusOK, 5*time.Millisecond)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "astforge.requests.total")
	require.NotNil(t, reqTotal)
	assert.Equal(t, int64(1), sumValue(t, reqTotal))

	assert.NotNil(t, findMetric(rm, "astforge.request.duration.seconds"))
	assert.Nil(t, findMetric(rm, "astforge.errors.total"))
}

func TestREDMetrics_RecordRequestError(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)
	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "validate", observability.StatusError, time.Millisecond)

	errTotal := findMetric(collectMetrics(t, reader), "astforge.errors.total")
	require.NotNil(t, errTotal)
	assert.Equal(t, int64(1), sumValue(t, errTotal))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)
	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "print")

	inflight := findMetric(collectMetrics(t, reader), "astforge.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(1), sumValue(t, inflight))

	done()

	inflight = findMetric(collectMetrics(t, reader), "astforge.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumValue(t, inflight))
}

func TestPrintMetrics_RecordPrint(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)
	pm, err := observability.NewPrintMetrics(mp.Meter("test"))
	require.NoError(t, err)

	pm.RecordPrint(context.Background(), observability.PrintStats{Mode: "file", Nodes: 4, Bytes: 120, Violations: 2})

	rm := collectMetrics(t, reader)

	nodes := findMetric(rm, "astforge.print.nodes.total")
	require.NotNil(t, nodes)
	assert.Equal(t, int64(4), sumValue(t, nodes))

	violations := findMetric(rm, "astforge.print.violations.total")
	require.NotNil(t, violations)
	assert.Equal(t, int64(2), sumValue(t, violations))

	hist := findMetric(rm, "astforge.print.output.bytes")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, int64(120), data.DataPoints[0].Sum)

	mode, found := data.DataPoints[0].Attributes.Value(attribute.Key("mode"))
	require.True(t, found)
	assert.Equal(t, "file", mode.AsString())
}

func TestPrintMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var pm *observability.PrintMetrics

	assert.NotPanics(t, func() {
		pm.RecordPrint(context.Background(), observability.PrintStats{Mode: "node"})
	})
}
