// Package otel wires OpenTelemetry tracing for service commands.
package otel

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdresist/optimizer/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EnvEndpoint names the OTLP HTTP collector URL.
	EnvEndpoint = "GDRESIST_OTEL_ENDPOINT"
	// EnvEnabled disables tracing when set to "false".
	EnvEnabled = "GDRESIST_OTEL_ENABLED"
	// EnvSampleRatio sets the fraction of new root traces that are sampled.
	EnvSampleRatio = "GDRESIST_OTEL_SAMPLE_RATIO"
)

// Config controls trace export. Tracing stays off until Endpoint is set.
type Config struct {
	Endpoint    string  `env:"GDRESIST_OTEL_ENDPOINT"`
	Enabled     bool    `env:"GDRESIST_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"GDRESIST_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Endpoint) != ""
}

// LoadConfig reads Config from environment, or from the process environment
// when environment is nil.
func LoadConfig(environment map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvFrom(&cfg, environment); err != nil {
		return Config{}, err
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return Config{}, fmt.Errorf("%s must be within [0, 1], got %v", EnvSampleRatio, cfg.SampleRatio)
	}
	return cfg, nil
}

// Setup initialises tracing for serviceName from the process environment.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		return noop, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig installs a global tracer provider exporting over OTLP HTTP.
// When cfg is inactive it returns a no-op shutdown and leaves the global
// provider untouched.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("build otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func noop(context.Context) error { return nil }
