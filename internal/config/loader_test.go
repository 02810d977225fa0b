package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("TASKHIVE_JWT_SECRET", testSecret)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Audit.Backend != "postgres" {
		t.Errorf("audit backend = %q, want postgres", cfg.Audit.Backend)
	}
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("TASKHIVE_JWT_SECRET", testSecret)

	path := filepath.Join(t.TempDir(), "taskhive.yaml")
	yaml := `
server:
  port: "9090"
auth:
  token_ttl: 1h
  bcrypt_cost: 4
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("token ttl = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 4 {
		t.Errorf("bcrypt cost = %d, want 4", cfg.Auth.BcryptCost)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	t.Setenv("TASKHIVE_JWT_SECRET", testSecret)
	t.Setenv("TASKHIVE_PORT", "7070")
	t.Setenv("TASKHIVE_TOKEN_TTL", "30m")

	path := filepath.Join(t.TempDir(), "taskhive.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("token ttl = %v, want 30m", cfg.Auth.TokenTTL)
	}
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{}},
		{name: "short jwt secret", env: map[string]string{"TASKHIVE_JWT_SECRET": "short"}},
		{name: "bad audit backend", env: map[string]string{
			"TASKHIVE_JWT_SECRET":    testSecret,
			"TASKHIVE_AUDIT_BACKEND": "kafka",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
