package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCompile does nothing.
func (NoopMetrics) RecordCompile(_ context.Context, _ string, _ time.Duration) {}

// RecordSample does nothing.
func (NoopMetrics) RecordSample(_ context.Context, _, _ int) {}

// RecordRequest does nothing.
func (NoopMetrics) RecordRequest(_ context.Context, _ string, _ int, _ time.Duration) {}
