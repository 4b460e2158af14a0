package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STUDIO_CONFIG_FILE", "")
	t.Setenv("STUDIO_STORE", "")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Fatalf("expected sqlite default, got %q", cfg.Store)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("expected 10s poll interval, got %s", cfg.PollInterval)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studio.yaml")
	raw := []byte(`
port: "9090"
store: dataapi
poll_interval: 3s
data_api:
  url: https://example.supabase.co
  api_key: anon
auth:
  jwt_secret: from-file
cors_origins: ["https://studio.example.com"]
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("STUDIO_CONFIG_FILE", path)
	t.Setenv("STUDIO_STORE", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env should override file, got port %q", cfg.Port)
	}
	if cfg.Store != StoreDataAPI || cfg.PollInterval != 3*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.DataAPI.APIKey != "anon" || cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("nested file values not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://studio.example.com" {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("missing jwt secret should fail")
	}
	cfg.Auth.JWTSecret = "x"
	cfg.Store = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown store should fail")
	}
	cfg.Store = StorePostgres
	if err := cfg.Validate(); err == nil {
		t.Fatalf("postgres without name should fail")
	}
	cfg.Postgres.Name, cfg.Postgres.User = "studio", "studio"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
