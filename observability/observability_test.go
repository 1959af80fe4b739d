package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/monox/component"
	apperrors "github.com/kbukum/monox/errors"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	mp := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected endpoint %q, got %q", DefaultEndpoint, cfg.Endpoint)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("expected interval %v, got %v", DefaultInterval, cfg.Interval)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("expected sample rate %v, got %v", DefaultSampleRate, cfg.SampleRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled ignores everything", Config{SampleRate: 7}, false},
		{"enabled ok", Config{Enabled: true, Endpoint: "collector:4318", SampleRate: 0.5}, false},
		{"enabled without endpoint", Config{Enabled: true, SampleRate: 1}, true},
		{"enabled bad rate", Config{Enabled: true, Endpoint: "collector:4318", SampleRate: 1.5}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestProviderDisabled(t *testing.T) {
	restoreGlobals(t)
	p := NewProvider("monox", "test", "development", Config{})

	if p.Name() != "telemetry" {
		t.Errorf("expected name telemetry, got %q", p.Name())
	}
	if h := p.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h := p.Health(context.Background())
	if h.Status != component.StatusHealthy || h.Message != "disabled" {
		t.Errorf("unexpected health %+v", h)
	}
	if p.Enabled() {
		t.Error("expected provider disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestProviderInvalidConfig(t *testing.T) {
	_, err := Init(context.Background(), "monox", "test", "development",
		Config{Enabled: true, Endpoint: "collector:4318", SampleRate: 2})
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestProviderEnabled(t *testing.T) {
	restoreGlobals(t)
	p, err := Init(context.Background(), "monox", "test", "development", Config{
		Enabled:  true,
		Endpoint: "127.0.0.1:4318",
		Insecure: true,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h := p.Health(context.Background())
	if h.Status != component.StatusHealthy || h.Message != "exporting to 127.0.0.1:4318" {
		t.Errorf("unexpected health %+v", h)
	}

	// Nothing listens on the endpoint; only the release of resources matters.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
	if h := p.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after shutdown, got %+v", h)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func sumOf(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func histogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	var total uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if h, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range h.DataPoints {
					total += dp.Count
				}
			}
		}
	}
	return total
}

func TestMetricsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordEvents(ctx, "muons", 3)
	metrics.RecordEvents(ctx, "muons", 2)
	metrics.RecordSkipped(ctx, "muons", "MISSING_FIELD")
	metrics.RecordSelected(ctx, "Muon", "loose", 4)
	metrics.RecordSelected(ctx, "Muon", "loose", 0)
	metrics.RecordPartition(ctx, "ok", 20*time.Millisecond)
	metrics.RecordPartition(ctx, "error", time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got := sumOf(rm, "events.processed"); got != 5 {
		t.Errorf("events.processed = %d, want 5", got)
	}
	if got := sumOf(rm, "events.skipped"); got != 1 {
		t.Errorf("events.skipped = %d, want 1", got)
	}
	if got := sumOf(rm, "objects.selected"); got != 4 {
		t.Errorf("objects.selected = %d, want 4", got)
	}
	if got := histogramCount(rm, "partition.duration"); got != 2 {
		t.Errorf("partition.duration count = %d, want 2", got)
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics.RecordEvents(context.Background(), "jets", 1)
}

func TestSpans(t *testing.T) {
	restoreGlobals(t)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	ctx, span := StartSpan(context.Background(), SpanAnalysisRun)
	SetSpanAttribute(ctx, AttrObservable, "muons")
	SetSpanAttribute(ctx, AttrEvents, 12)
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, errors.New("boom"))
	SetSpanError(ctx, nil)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name != SpanAnalysisRun {
		t.Errorf("expected span %q, got %q", SpanAnalysisRun, got.Name)
	}
	if got.Status.Code != codes.Error || got.Status.Description != "boom" {
		t.Errorf("unexpected status %+v", got.Status)
	}
	if len(got.Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %v", got.Attributes)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected the error recorded as an event, got %d", len(got.Events))
	}
}

func TestSpanHelpersWithoutRecordingSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, errors.New("no span"))
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected non-nil noop span")
	}
	if Tracer("x") == nil || Meter("x") == nil {
		t.Fatal("expected global tracer and meter")
	}
}
