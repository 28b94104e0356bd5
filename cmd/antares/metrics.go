package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/chaimleib/antares/observe"
)

// meterReport collects the engine's instruments in process so a run can
// print them when it ends.
type meterReport struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
	Metrics  *observe.Metrics
}

func newMeterReport() (*meterReport, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observe.NewMetrics(provider)
	if err != nil {
		return nil, err
	}
	return &meterReport{reader: reader, provider: provider, Metrics: m}, nil
}

// Write prints one line per instrument and attribute set, sorted by name.
func (r *meterReport) Write(ctx context.Context, w io.Writer) error {
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(ctx, &rm); err != nil {
		return err
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				name := m.Name
				var attrs []string
				for _, kv := range dp.Attributes.ToSlice() {
					attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
				}
				if len(attrs) > 0 {
					name += "{" + strings.Join(attrs, ",") + "}"
				}
				lines = append(lines, fmt.Sprintf("%-48s %d", name, dp.Value))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown releases the provider.
func (r *meterReport) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}
