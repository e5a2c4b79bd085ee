package otelx

import (
	"context"
	"testing"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = prev })
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	withEnv(t, map[string]string{})
	cfg := ConfigFromEnv("availability-service")
	if !cfg.Enabled || cfg.ServiceName != "availability-service" || cfg.SampleRatio != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.OTLPEndpoint != "otel-collector:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.OTLPEndpoint)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	withEnv(t, map[string]string{
		"OTEL_ENABLED":        "0",
		"OTEL_SERVICE_NAME":   "slots",
		"OTEL_SAMPLING_RATIO": "0.25",
	})
	cfg := ConfigFromEnv("availability-service")
	if cfg.Enabled || cfg.ServiceName != "slots" || cfg.SampleRatio != 0.25 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfigFromEnv_IgnoresBadRatio(t *testing.T) {
	withEnv(t, map[string]string{"OTEL_SAMPLING_RATIO": "2"})
	if cfg := ConfigFromEnv("svc"); cfg.SampleRatio != 1 {
		t.Fatalf("expected ratio 1, got %v", cfg.SampleRatio)
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestConfigFromEnv_EndpointAndResource(t *testing.T) {
	withEnv(t, map[string]string{
		"OTEL_EXPORTER_OTLP_ENDPOINT": "http://collector.observability:4317/",
		"SERVICE_VERSION":             "1.4.0",
		"APP_ENV":                     "staging",
	})
	cfg := ConfigFromEnv("availability-service")
	if cfg.OTLPEndpoint != "collector.observability:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.OTLPEndpoint)
	}
	attrs := serviceAttributes(cfg)
	if len(attrs) != 3 {
		t.Fatalf("expected name, version and environment attributes, got %v", attrs)
	}
	if attrs[2].Value.AsString() != "staging" {
		t.Fatalf("unexpected environment attribute %v", attrs[2])
	}
}
