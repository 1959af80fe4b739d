package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func newMeterProvider(ctx context.Context, cfg *Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the pipeline instruments.
type Metrics struct {
	eventsProcessed   metric.Int64Counter
	eventsSkipped     metric.Int64Counter
	objectsSelected   metric.Int64Counter
	partitionDuration metric.Float64Histogram
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	eventsProcessed, err := meter.Int64Counter("events.processed",
		metric.WithDescription("Events converted and measured"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.processed counter: %w", err)
	}

	eventsSkipped, err := meter.Int64Counter("events.skipped",
		metric.WithDescription("Events dropped by the skip error policy"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.skipped counter: %w", err)
	}

	objectsSelected, err := meter.Int64Counter("objects.selected",
		metric.WithDescription("Objects that passed a selection predicate"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating objects.selected counter: %w", err)
	}

	partitionDuration, err := meter.Float64Histogram("partition.duration",
		metric.WithDescription("Wall time spent evaluating one partition"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.duration histogram: %w", err)
	}

	return &Metrics{
		eventsProcessed:   eventsProcessed,
		eventsSkipped:     eventsSkipped,
		objectsSelected:   objectsSelected,
		partitionDuration: partitionDuration,
	}, nil
}

// RecordEvents counts n events measured for observable.
func (m *Metrics) RecordEvents(ctx context.Context, observable string, n int64) {
	m.eventsProcessed.Add(ctx, n, metric.WithAttributes(
		attribute.String("observable", observable),
	))
}

// RecordSkipped counts one event dropped because of reason (an error code).
func (m *Metrics) RecordSkipped(ctx context.Context, observable, reason string) {
	m.eventsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("observable", observable),
		attribute.String("reason", reason),
	))
}

// RecordSelected counts n objects of collection that passed predicate.
func (m *Metrics) RecordSelected(ctx context.Context, collection, predicate string, n int) {
	if n <= 0 {
		return
	}
	m.objectsSelected.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("predicate", predicate),
	))
}

// RecordPartition records how long one partition took and whether it failed.
func (m *Metrics) RecordPartition(ctx context.Context, status string, duration time.Duration) {
	m.partitionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}
