// Package observability provides request tracing for Tributary connectors
package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/ajitpratap0/tributary"

var (
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	provider *sdktrace.TracerProvider
	initOnce sync.Once
)

// InitTracing sets up the global tracer provider with a stdout exporter.
// Callers that never invoke it get a no-op tracer.
func InitTracing(serviceName string) error {
	var err error
	initOnce.Do(func() {
		res, resErr := resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(serviceName),
			),
		)
		if resErr != nil {
			err = fmt.Errorf("failed to create resource: %w", resErr)
			return
		}

		exporter, expErr := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if expErr != nil {
			err = fmt.Errorf("failed to create stdout exporter: %w", expErr)
			return
		}

		provider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		tracer = provider.Tracer(tracerName)
	})
	return err
}

// Shutdown flushes and stops the tracer provider
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// StartRequest starts a span covering one logical HTTP request (all of its
// retry attempts). End it via the returned span.
func StartRequest(ctx context.Context, connector, method, url string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "connector.request",
		trace.WithAttributes(
			attribute.String("connector", connector),
			attribute.String("http.method", method),
			attribute.String("http.url", url),
		),
	)
}

// EndRequest records the outcome on a request span and ends it
func EndRequest(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
