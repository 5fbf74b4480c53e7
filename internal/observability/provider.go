package observability

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider is an in-process meter provider whose readings can be
// collected on demand, e.g. by the server's /debug/metrics endpoint.
type Provider struct {
	*sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

// NewProvider creates a Provider backed by a manual reader.
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	return &Provider{
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:        reader,
	}
}

// Reading is a flattened view of one metric stream.
type Reading struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Value is the counter total, or the histogram sum.
	Value float64 `json:"value"`
	// Count is the histogram observation count; zero for counters.
	Count uint64 `json:"count,omitempty"`
}

// Snapshot collects current readings sorted by name.
func (p *Provider) Snapshot(ctx context.Context) ([]Reading, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	var out []Reading
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out = append(out, readings(m)...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func readings(m metricdata.Metrics) []Reading {
	var out []Reading
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			out = append(out, Reading{Name: m.Name, Attributes: attrs(dp.Attributes.ToSlice()), Value: float64(dp.Value)})
		}
	case metricdata.Sum[float64]:
		for _, dp := range data.DataPoints {
			out = append(out, Reading{Name: m.Name, Attributes: attrs(dp.Attributes.ToSlice()), Value: dp.Value})
		}
	case metricdata.Histogram[int64]:
		for _, dp := range data.DataPoints {
			out = append(out, Reading{Name: m.Name, Attributes: attrs(dp.Attributes.ToSlice()), Value: float64(dp.Sum), Count: dp.Count})
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			out = append(out, Reading{Name: m.Name, Attributes: attrs(dp.Attributes.ToSlice()), Value: dp.Sum, Count: dp.Count})
		}
	}
	return out
}

func attrs(kvs []attribute.KeyValue) map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}
