// Package observability wires OpenTelemetry tracing and metrics.
//
// A Provider installs OTLP/HTTP trace and metric exporters when enabled and
// leaves the global no-op providers in place otherwise, so instrumented code
// never needs to check whether telemetry is on:
//
//	p, err := observability.Init(ctx, "monox", version.Get().Version, "development", cfg)
//	defer p.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanAnalysisRun)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("monox"))
//	metrics.RecordEvents(ctx, "muons", 1)
//
// Provider also satisfies component.Component so bootstrap can start and stop
// it with the rest of the application.
package observability
