package otel_test

import (
	"context"
	"testing"

	"github.com/gdresist/optimizer/internal/platform/otel"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := otel.LoadConfig(map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Enabled || cfg.SampleRatio != 1 || cfg.Endpoint != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Active() {
		t.Fatal("expected tracing inactive without endpoint")
	}
}

func TestLoadConfigHonorsDisableSwitch(t *testing.T) {
	t.Parallel()

	cfg, err := otel.LoadConfig(map[string]string{
		otel.EnvEndpoint: "http://localhost:4318",
		otel.EnvEnabled:  "false",
	})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Active() {
		t.Fatal("expected tracing inactive when disabled")
	}
}

func TestLoadConfigRejectsBadRatio(t *testing.T) {
	t.Parallel()

	if _, err := otel.LoadConfig(map[string]string{otel.EnvSampleRatio: "1.5"}); err == nil {
		t.Fatal("expected error for ratio above 1")
	}
	if _, err := otel.LoadConfig(map[string]string{otel.EnvSampleRatio: "half"}); err == nil {
		t.Fatal("expected error for non-numeric ratio")
	}
}

func TestSetupWithConfigNoopWhenInactive(t *testing.T) {
	t.Parallel()

	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{Enabled: true})
	if err != nil {
		t.Fatalf("SetupWithConfig() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupWithConfigCreatesProvider(t *testing.T) {
	// Non-routable address so nothing is exported.
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("SetupWithConfig() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
