// Package observability records compile, sampling and HTTP metrics with
// OpenTelemetry.
package observability

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of all LeapPlot instruments.
const MeterName = "leapplot"

// MetricsRecorder records LeapPlot metrics.
// Use NewMetricsRecorder for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records one compile attempt. reason is empty on success.
	RecordCompile(ctx context.Context, reason string, duration time.Duration)

	// RecordSample records a sampling run and how many points were finite.
	RecordSample(ctx context.Context, points, finite int)

	// RecordRequest records a served HTTP request.
	RecordRequest(ctx context.Context, route string, status int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles       metric.Int64Counter
	compileLatency metric.Float64Histogram
	samplePoints   metric.Int64Histogram
	sampleNaN      metric.Int64Counter
	requests       metric.Int64Counter
	requestLatency metric.Float64Histogram
}

// newOtelMetrics creates the instruments on provider's meter.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(MeterName)

	compiles, err := meter.Int64Counter("leapplot.compile.count",
		metric.WithDescription("Number of compile attempts"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("leapplot.compile.latency_ms",
		metric.WithDescription("Compile latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	samplePoints, err := meter.Int64Histogram("leapplot.sample.points",
		metric.WithDescription("Points evaluated per sampling run"),
	)
	if err != nil {
		return nil, err
	}

	sampleNaN, err := meter.Int64Counter("leapplot.sample.nan_points",
		metric.WithDescription("Sampled points that evaluated to NaN"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("leapplot.http.requests",
		metric.WithDescription("Number of HTTP requests served"),
	)
	if err != nil {
		return nil, err
	}

	requestLatency, err := meter.Float64Histogram("leapplot.http.latency_ms",
		metric.WithDescription("HTTP request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:       compiles,
		compileLatency: compileLatency,
		samplePoints:   samplePoints,
		sampleNaN:      sampleNaN,
		requests:       requests,
		requestLatency: requestLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by provider.
// A nil provider means the global OTel meter provider. If instrument
// creation fails, a no-op recorder is returned.
func NewMetricsRecorder(provider metric.MeterProvider) MetricsRecorder {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m, err := newOtelMetrics(provider)
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordCompile records a compile attempt.
func (m *otelMetrics) RecordCompile(ctx context.Context, reason string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.Bool("valid", reason == ""),
		attribute.String("reason", reason),
	)
	m.compiles.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, milliseconds(duration), attrs)
}

// RecordSample records a sampling run.
func (m *otelMetrics) RecordSample(ctx context.Context, points, finite int) {
	m.samplePoints.Record(ctx, int64(points))
	if nan := points - finite; nan > 0 {
		m.sampleNaN.Add(ctx, int64(nan))
	}
}

// RecordRequest records an HTTP request.
func (m *otelMetrics) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.requestLatency.Record(ctx, milliseconds(duration), attrs)
}
