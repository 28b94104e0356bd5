package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func testSetup(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sums := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = s
			}
		}
	}
	return sums
}

func TestCounters(t *testing.T) {
	m, reader := testSetup(t)
	ctx := context.Background()

	m.QueueScheduled.Add(ctx, 3)
	m.QueueDropped.Add(ctx, 1)
	m.ObjectsLive.Add(ctx, 4)
	m.ObjectsLive.Add(ctx, -1)

	sums := collect(t, reader)
	tests := []struct {
		name string
		want int64
	}{
		{"antares.queue.scheduled", 3},
		{"antares.queue.dropped", 1},
		{"antares.objects.live", 3},
	}
	for _, tt := range tests {
		s, ok := sums[tt.name]
		if !ok || len(s.DataPoints) != 1 {
			t.Errorf("%s: missing data point", tt.name)
			continue
		}
		if got := s.DataPoints[0].Value; got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestVerbAttribute(t *testing.T) {
	m, reader := testSetup(t)
	ctx := context.Background()

	m.ActionsExecuted.Add(ctx, 1, Verb("alter"))
	m.ActionsExecuted.Add(ctx, 2, Verb("alter"))
	m.ActionsExecuted.Add(ctx, 1, Verb("die"))

	s := collect(t, reader)["antares.actions.executed"]
	got := map[string]int64{}
	for _, dp := range s.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("verb"))
		got[v.AsString()] = dp.Value
	}
	if got["alter"] != 3 || got["die"] != 1 {
		t.Errorf("per-verb counts = %v, want alter=3 die=1", got)
	}
}

func TestDiscard(t *testing.T) {
	m := Discard()
	m.QueueFired.Add(context.Background(), 1, Side("subject"))
	if DefaultMetrics() == nil {
		t.Error("DefaultMetrics should never be nil")
	}
}
