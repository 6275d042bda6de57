package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestParseFlagOverridesEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGIN", "https://from-env.example")
	cfg, err := Parse([]string{"-origin", "https://from-flag.example"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AllowedOrigin != "https://from-flag.example" {
		t.Fatalf("expected flag to win, got %q", cfg.AllowedOrigin)
	}
}

func TestParseEnvOverridesDefault(t *testing.T) {
	t.Setenv("ALLOWED_ORIGIN", "https://from-env.example")
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AllowedOrigin != "https://from-env.example" {
		t.Fatalf("expected env to win over default, got %q", cfg.AllowedOrigin)
	}
}

func TestParseSinkBufferSize(t *testing.T) {
	cfg, err := Parse([]string{"-sink-buffer", "16"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SinkBufferSize != 16 {
		t.Fatalf("expected 16, got %d", cfg.SinkBufferSize)
	}
}
