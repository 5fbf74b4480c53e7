package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns its reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader, provider
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, provider := setupMetricsTest(t)

	recorder := NewMetricsRecorder(provider)
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestNewMetricsRecorder_GlobalProvider(t *testing.T) {
	_, provider := setupMetricsTest(t)
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(original) })

	recorder := NewMetricsRecorder(nil)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop)
}

func TestRecordCompile(t *testing.T) {
	reader, provider := setupMetricsTest(t)
	m, err := newOtelMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCompile(ctx, "", 2*time.Millisecond)
	m.RecordCompile(ctx, "", time.Millisecond)
	m.RecordCompile(ctx, "unknown_identifier", time.Millisecond)

	rm := collectMetrics(t, reader)

	count := findMetric(rm, "leapplot.compile.count")
	require.NotNil(t, count)
	sum, ok := count.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	totals := map[bool]int64{}
	for _, dp := range sum.DataPoints {
		valid, _ := dp.Attributes.Value("valid")
		totals[valid.AsBool()] += dp.Value
	}
	assert.Equal(t, int64(2), totals[true])
	assert.Equal(t, int64(1), totals[false])

	latency := findMetric(rm, "leapplot.compile.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var observations uint64
	for _, dp := range hist.DataPoints {
		observations += dp.Count
	}
	assert.Equal(t, uint64(3), observations)
}

func TestRecordSample(t *testing.T) {
	reader, provider := setupMetricsTest(t)
	m, err := newOtelMetrics(provider)
	require.NoError(t, err)

	m.RecordSample(context.Background(), 500, 480)
	m.RecordSample(context.Background(), 100, 100)

	rm := collectMetrics(t, reader)
	nan := findMetric(rm, "leapplot.sample.nan_points")
	require.NotNil(t, nan)
	sum := nan.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)

	points := findMetric(rm, "leapplot.sample.points")
	require.NotNil(t, points)
	hist := points.Data.(metricdata.Histogram[int64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(600), hist.DataPoints[0].Sum)
}

func TestProviderSnapshot(t *testing.T) {
	p := NewProvider()
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	recorder := NewMetricsRecorder(p)
	ctx := context.Background()
	recorder.RecordRequest(ctx, "/equation/parse", 200, time.Millisecond)
	recorder.RecordRequest(ctx, "/equation/parse", 200, time.Millisecond)

	readings, err := p.Snapshot(ctx)
	require.NoError(t, err)

	var found bool
	for _, r := range readings {
		if r.Name == "leapplot.http.requests" {
			found = true
			assert.Equal(t, 2.0, r.Value)
			assert.Equal(t, "/equation/parse", r.Attributes["route"])
			assert.Equal(t, "200", r.Attributes["status"])
		}
	}
	assert.True(t, found)
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordCompile(context.Background(), "syntax", time.Second)
		m.RecordSample(context.Background(), 10, 0)
		m.RecordRequest(context.Background(), "/", 500, time.Second)
	})
}
