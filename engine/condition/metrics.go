package condition

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "scriptctx.condition"

var (
	compileBuckets  = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}
	evaluateBuckets = []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01}
)

var (
	globalMetricsOnce sync.Once
	globalMetrics     *evaluatorMetrics
)

type evaluatorMetrics struct {
	compiles         metric.Int64Counter
	cacheHits        metric.Int64Counter
	evaluations      metric.Int64Counter
	compileDuration  metric.Float64Histogram
	evaluateDuration metric.Float64Histogram
}

// defaultMetrics records through the global meter provider, which is a no-op
// until the host installs one.
func defaultMetrics() *evaluatorMetrics {
	globalMetricsOnce.Do(func() {
		m, err := newEvaluatorMetrics(otel.GetMeterProvider().Meter(meterName))
		if err == nil {
			globalMetrics = m
		}
	})
	return globalMetrics
}

func newEvaluatorMetrics(meter metric.Meter) (*evaluatorMetrics, error) {
	var (
		m   evaluatorMetrics
		err error
	)
	m.compiles, err = meter.Int64Counter(
		metricName("compiles_total"),
		metric.WithDescription("Condition compilations, including cache hits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	m.cacheHits, err = meter.Int64Counter(
		metricName("compile_cache_hits_total"),
		metric.WithDescription("Condition program cache hits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	m.evaluations, err = meter.Int64Counter(
		metricName("evaluations_total"),
		metric.WithDescription("Condition evaluations by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	m.compileDuration, err = meter.Float64Histogram(
		metricName("compile_duration_seconds"),
		metric.WithDescription("Condition compilation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(compileBuckets...),
	)
	if err != nil {
		return nil, err
	}
	m.evaluateDuration, err = meter.Float64Histogram(
		metricName("evaluate_duration_seconds"),
		metric.WithDescription("Condition evaluation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(evaluateBuckets...),
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func metricName(name string) string {
	return "scriptctx_condition_" + name
}

func (m *evaluatorMetrics) recordCompile(ctx context.Context, duration time.Duration, cacheHit bool) {
	if m == nil {
		return
	}
	ctx = metricsContext(ctx)
	attrs := metric.WithAttributes(attribute.Bool("cache_hit", cacheHit))
	m.compiles.Add(ctx, 1, attrs)
	if cacheHit {
		m.cacheHits.Add(ctx, 1)
		return
	}
	if duration > 0 {
		m.compileDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// recordEvaluation tags the outcome as true, false or error.
func (m *evaluatorMetrics) recordEvaluation(ctx context.Context, duration time.Duration, outcome string) {
	if m == nil {
		return
	}
	ctx = metricsContext(ctx)
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.evaluations.Add(ctx, 1, attrs)
	m.evaluateDuration.Record(ctx, duration.Seconds(), attrs)
}

func metricsContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
