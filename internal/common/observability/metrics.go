// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Observability aggregates OTel instruments for the loan pipeline. The
// Prometheus exporter feeds the same /metrics endpoint as the worker
// counters, so one scrape covers both.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	jobsObserved  otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobsObserved, _ := meter.Int64Counter(
		"pipeline.jobs.observed",
		otelmetric.WithDescription("Jobs handled per pipeline task type"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"pipeline.job.duration",
		otelmetric.WithDescription("End-to-end handler duration per task type"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		jobsObserved:  jobsObserved,
		jobDuration:   jobDuration,
	}
}

// ObserveJob records one handled job for a pipeline task type.
func (o *Observability) ObserveJob(ctx context.Context, taskType string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("task_type", taskType))
	if o.jobsObserved != nil {
		o.jobsObserved.Add(ctx, 1, attrs)
	}
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
