package telemetry

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Local is an in-process meter provider whose totals can be read back
// after a headless run.
type Local struct {
	Provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

func NewLocal() *Local {
	reader := sdkmetric.NewManualReader()
	return &Local{
		Provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Totals sums counters and keeps the last value of gauges, keyed by
// instrument name.
func (l *Local) Totals(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := l.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] = dp.Value
				}
			}
		}
	}
	return out, nil
}

func (l *Local) Shutdown(ctx context.Context) error {
	return l.Provider.Shutdown(ctx)
}
