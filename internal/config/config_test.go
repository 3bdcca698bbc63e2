package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(zap.NewNop(), lookupFrom(nil))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	want := Default()
	if cfg.HTTPAddr != want.HTTPAddr || cfg.StoreBackend != BackendMongo {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPRequestTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.HTTPRequestTimeout)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("expected CORS origin *, got %q", cfg.CORSAllowedOrigin)
	}
	if cfg.Mongo.Collection != "todo" {
		t.Errorf("expected collection todo, got %q", cfg.Mongo.Collection)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := load(zap.NewNop(), lookupFrom(map[string]string{
		"HTTP_ADDR":            ":9000",
		"STORE_BACKEND":        " Redis ",
		"REDIS_DB":             "2",
		"RATE_RPS":             "5.5",
		"RATE_BURST":           "3",
		"HTTP_REQUEST_TIMEOUT": "750ms",
		"TRACING_ENABLED":      "true",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.StoreBackend != BackendRedis {
		t.Errorf("StoreBackend=%q", cfg.StoreBackend)
	}
	if cfg.Redis.DB != 2 || cfg.RateRPS != 5.5 || cfg.RateBurst != 3 {
		t.Errorf("unexpected numeric values: %+v", cfg)
	}
	if cfg.HTTPRequestTimeout != 750*time.Millisecond {
		t.Errorf("HTTPRequestTimeout=%s", cfg.HTTPRequestTimeout)
	}
	if !cfg.TracingEnabled {
		t.Errorf("expected tracing enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Parallel()

	cfg, err := load(zap.NewNop(), lookupFrom(map[string]string{
		"HTTP_REQUEST_TIMEOUT": "soon",
		"REDIS_DB":             "one",
		"TRACING_ENABLED":      "maybe",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.HTTPRequestTimeout != 3*time.Second {
		t.Errorf("expected fallback 3s, got %s", cfg.HTTPRequestTimeout)
	}
	if cfg.Redis.DB != 0 || cfg.TracingEnabled {
		t.Errorf("expected defaults kept: %+v", cfg)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := load(zap.NewNop(), lookupFrom(map[string]string{"STORE_BACKEND": "cassandra"}))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_TOMLFileUnderEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "todo.toml")
	content := `
http_addr = ":7000"
store_backend = "mysql"
http_request_timeout = "5s"

[mysql]
host = "db"
name = "todos"

[mongo]
database = "fromfile"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := load(zap.NewNop(), lookupFrom(map[string]string{
		"TODO_CONFIG": path,
		"DB_NAME":     "fromenv",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.HTTPAddr != ":7000" || cfg.StoreBackend != BackendMySQL {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTPRequestTimeout != 5*time.Second {
		t.Errorf("expected 5s from file, got %s", cfg.HTTPRequestTimeout)
	}
	if cfg.DB.Host != "db" {
		t.Errorf("DB.Host=%q", cfg.DB.Host)
	}
	if cfg.DB.Name != "fromenv" {
		t.Errorf("env should win over file, DB.Name=%q", cfg.DB.Name)
	}
	if cfg.DB.Port != "3306" {
		t.Errorf("default should survive partial table, DB.Port=%q", cfg.DB.Port)
	}
	if cfg.Mongo.Database != "fromfile" || cfg.Mongo.URI == "" {
		t.Errorf("unexpected mongo config: %+v", cfg.Mongo)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := load(zap.NewNop(), lookupFrom(map[string]string{
		"TODO_CONFIG": filepath.Join(t.TempDir(), "nope.toml"),
	}))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
