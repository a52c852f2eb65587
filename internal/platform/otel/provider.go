// Package otel wires opt-in OTLP trace exporting for the service.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/futureworld/futureworld.site/internal/platform/config"
)

// Config controls trace exporting. Tracing is opt-in: with no endpoint, or
// when explicitly disabled, no global provider is registered.
type Config struct {
	Enabled  bool   `env:"FUTUREWORLD_OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"FUTUREWORLD_OTEL_ENDPOINT"`
}

func noopShutdown(context.Context) error { return nil }

// Setup reads Config from the environment and initialises tracing for the
// given service. The returned shutdown function flushes pending spans and
// should be deferred by the caller.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noopShutdown, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig initialises tracing from an explicit Config.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (func(context.Context) error, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !cfg.Enabled || endpoint == "" {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
