package script

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "scriptctx.script"

var (
	globalMetricsOnce sync.Once
	globalMetrics     *bodyMetrics
)

type bodyMetrics struct {
	merges         metric.Int64Counter
	decodeFailures metric.Int64Counter
}

func defaultMetrics() *bodyMetrics {
	globalMetricsOnce.Do(func() {
		m, err := newBodyMetrics(otel.GetMeterProvider().Meter(meterName))
		if err == nil {
			globalMetrics = m
		}
	})
	return globalMetrics
}

func newBodyMetrics(meter metric.Meter) (*bodyMetrics, error) {
	merges, err := meter.Int64Counter(
		"scriptctx_script_body_merges_total",
		metric.WithDescription("Payloads merged into a script context body"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	decodeFailures, err := meter.Int64Counter(
		"scriptctx_script_decode_failures_total",
		metric.WithDescription("Payloads rejected because they could not be decoded"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	return &bodyMetrics{merges: merges, decodeFailures: decodeFailures}, nil
}

// recordMerge tags the merge with the kind of the merged payload.
func (m *bodyMetrics) recordMerge(kind string) {
	if m == nil {
		return
	}
	m.merges.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// recordDecodeFailure tags the failure with the operation that rejected it.
func (m *bodyMetrics) recordDecodeFailure(source string) {
	if m == nil {
		return
	}
	m.decodeFailures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("source", source)))
}
