package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PROMPTWORLD_ADDR", "PROMPTWORLD_DB_DSN", "PROMPTWORLD_SQLITE_PATH", "PROMPTWORLD_STORAGE",
		"PROMPTWORLD_LOG_LEVEL", "PROMPTWORLD_MAX_AGENT_STEPS", "PROMPTWORLD_MAX_TRIALS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Storage.Driver != StorageMemory || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.MaxAgentSteps != 200 || cfg.Evaluation.MaxTrials != 1000 || cfg.Session.FrameScale != 24 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "promptworld.yaml")
	body := `
server:
  addr: ":9090"
storage:
  driver: sqlite
  sqlite_path: /tmp/pw.db
log:
  level: debug
session:
  max_agent_steps: 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Storage.Driver != StorageSQLite || cfg.Storage.SQLitePath != "/tmp/pw.db" {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Session.MaxAgentSteps != 50 {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "promptworld.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PROMPTWORLD_ADDR", ":7070")
	t.Setenv("PROMPTWORLD_DB_DSN", "postgres://localhost/pw")
	t.Setenv("PROMPTWORLD_LOG_LEVEL", "WARN")
	t.Setenv("PROMPTWORLD_MAX_TRIALS", "25")
	t.Setenv("PROMPTWORLD_MAX_AGENT_STEPS", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr: got=%q want=%q", cfg.Server.Addr, ":7070")
	}
	if cfg.Storage.Driver != StoragePostgres {
		t.Fatalf("a dsn without explicit driver should select postgres, got %q", cfg.Storage.Driver)
	}
	if cfg.Log.Level != "warn" || cfg.Evaluation.MaxTrials != 25 || cfg.Session.MaxAgentSteps != 200 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	t.Setenv("PROMPTWORLD_STORAGE", "postgres")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid postgres config, got %v", err)
	}

	t.Setenv("PROMPTWORLD_STORAGE", "redis")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}

	t.Setenv("PROMPTWORLD_STORAGE", "")
	t.Setenv("PROMPTWORLD_LOG_LEVEL", "loud")
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected unknown level error, got %v", err)
	}
}
