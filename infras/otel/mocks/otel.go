package mocks

import (
	"context"
	"studio/infras/otel"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type otelImpl struct {
	provider oteltrace.TracerProvider
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

// NewOtel returns a tracer whose spans are discarded.
func NewOtel() otel.Otel {
	return &otelImpl{provider: noop.NewTracerProvider()}
}

// NewRecorder returns a tracer that keeps every span in memory for assertions.
func NewRecorder() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()

	return &otelImpl{provider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))}, recorder
}
