package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"business-recommender/internal/common/logger"
)

// Observability exposes OpenTelemetry instruments through the Prometheus
// default registry so they are served on /metrics next to promauto metrics.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	requestCounter otelmetric.Int64Counter
	scoreDuration  otelmetric.Float64Histogram
	candidateCount otelmetric.Int64Histogram
	log            logger.Logger
}

func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Error("Failed to create Prometheus exporter", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{log: log}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName, log)
}

// NewWithReader builds instruments on a caller-supplied reader, e.g. a
// metric.NewManualReader in tests.
func NewWithReader(serviceName string, reader metric.Reader, log logger.Logger) *Observability {
	return newWithProvider(metric.NewMeterProvider(metric.WithReader(reader)), serviceName, log)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string, log logger.Logger) *Observability {
	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"recommendations.requests",
		otelmetric.WithDescription("Number of recommendation requests processed"),
	)

	scoreDuration, _ := meter.Float64Histogram(
		"recommendations.duration",
		otelmetric.WithDescription("Recommendation processing duration"),
		otelmetric.WithUnit("ms"),
	)

	candidateCount, _ := meter.Int64Histogram(
		"recommendations.candidates",
		otelmetric.WithDescription("Number of recommendations returned per request"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		requestCounter: requestCounter,
		scoreDuration:  scoreDuration,
		candidateCount: candidateCount,
		log:            log,
	}
}

// RecordRecommendation records one completed recommendation request.
func (o *Observability) RecordRecommendation(ctx context.Context, source, algorithm, status string, duration time.Duration, returned int) {
	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("algorithm", algorithm),
		attribute.String("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.scoreDuration != nil {
		o.scoreDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
	if o.candidateCount != nil && status == "success" {
		o.candidateCount.Record(ctx, int64(returned), otelmetric.WithAttributes(
			attribute.String("algorithm", algorithm),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil && o.log != nil {
		o.log.Warn("Meter provider shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
