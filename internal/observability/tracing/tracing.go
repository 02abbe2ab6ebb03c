// Package tracing wires the global OpenTelemetry TracerProvider and exposes
// the package-level tracer each Driver merge cycle is spanned with. Grounded
// in the example pack's own observe.InitProvider/Tracer split: the provider
// records spans locally even with no configured exporter, so tracing stays
// free to wire up in development without an OTLP collector on hand.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for this service's tracer.
const tracerName = "speech-transcript-manager"

// Config configures the TracerProvider. Exporter is optional: when nil,
// spans are recorded but never exported, which is enough for request-scoped
// span attributes and local debugging.
type Config struct {
	ServiceName string
	Exporter    sdktrace.SpanExporter
}

// Init builds and globally registers a TracerProvider per cfg, returning a
// shutdown func to flush and release it on process exit.
func Init(cfg Config) (shutdown func(context.Context) error, err error) {
	opts := []sdktrace.TracerProviderOption{}
	if cfg.Exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(cfg.Exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Tracer returns the package-level tracer for this service, bound to
// whatever TracerProvider is currently registered globally.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span named name as a child of ctx's current span.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}
