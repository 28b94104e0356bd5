// Package observe holds the OpenTelemetry instruments the engine records
// into. Tests should build Metrics from their own MeterProvider.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/chaimleib/antares"

// Metrics holds the engine's instruments.
type Metrics struct {
	// QueueScheduled counts batches placed on the deferred action queue.
	QueueScheduled metric.Int64Counter

	// QueueDropped counts batches dropped because the queue was full.
	QueueDropped metric.Int64Counter

	// QueueFired counts batches replayed from the queue.
	QueueFired metric.Int64Counter

	// QueueStale counts captured objects found stale at fire time. Use with
	//   attribute.String("side", "subject"|"object")
	QueueStale metric.Int64Counter

	// ActionsExecuted counts executed action records. Use with
	//   attribute.String("verb", ...)
	ActionsExecuted metric.Int64Counter

	// ObjectsLive tracks occupied object pool slots.
	ObjectsLive metric.Int64UpDownCounter
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.QueueScheduled, err = m.Int64Counter("antares.queue.scheduled",
		metric.WithDescription("Action batches deferred onto the queue."),
	); err != nil {
		return nil, err
	}
	if met.QueueDropped, err = m.Int64Counter("antares.queue.dropped",
		metric.WithDescription("Action batches dropped because every queue slot was taken."),
	); err != nil {
		return nil, err
	}
	if met.QueueFired, err = m.Int64Counter("antares.queue.fired",
		metric.WithDescription("Deferred action batches replayed."),
	); err != nil {
		return nil, err
	}
	if met.QueueStale, err = m.Int64Counter("antares.queue.stale",
		metric.WithDescription("Captured objects that no longer existed when their batch fired."),
	); err != nil {
		return nil, err
	}
	if met.ActionsExecuted, err = m.Int64Counter("antares.actions.executed",
		metric.WithDescription("Action records executed, by verb."),
	); err != nil {
		return nil, err
	}
	if met.ObjectsLive, err = m.Int64UpDownCounter("antares.objects.live",
		metric.WithDescription("Occupied object pool slots."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Verb returns the attribute set for a verb name.
func Verb(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("verb", name))
}

// Side returns the attribute set for a queue side.
func Side(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("side", name))
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments from the global MeterProvider, created
// on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			defaultMetrics = Discard()
		}
	})
	return defaultMetrics
}

// Discard returns instruments that record nothing.
func Discard() *Metrics {
	met, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop meter failed: " + err.Error())
	}
	return met
}
