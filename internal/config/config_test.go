package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Beacon.URL != "nats://localhost:4222" {
		t.Errorf("unexpected beacon url %q", cfg.Beacon.URL)
	}
	w := cfg.Scoring.DefaultWeights
	if w.Execution != 40 || w.Objective != 50 || w.Collaboration != 10 {
		t.Errorf("unexpected default weights %+v", w)
	}
	if cfg.Scoring.QuarterWindow != 13 {
		t.Errorf("expected quarter window 13, got %d", cfg.Scoring.QuarterWindow)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	data := []byte(`
server:
  port: 9900
scoring:
  default_weights:
    execution: 30
    objective: 60
    collaboration: 10
  quarter_window_weeks: 8
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9900 {
		t.Errorf("expected port 9900, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.DefaultWeights.Objective != 60 {
		t.Errorf("expected objective weight 60, got %d", cfg.Scoring.DefaultWeights.Objective)
	}
	if cfg.Scoring.QuarterWindow != 8 {
		t.Errorf("expected quarter window 8, got %d", cfg.Scoring.QuarterWindow)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TALLY_PORT", "7000")
	t.Setenv("TALLY_DATABASE_URL", "postgres://env/tally")
	t.Setenv("TALLY_QUARTER_WINDOW_WEEKS", "26")
	t.Setenv("TALLY_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://env/tally" {
		t.Errorf("unexpected database url %q", cfg.Database.URL)
	}
	if cfg.Scoring.QuarterWindow != 26 {
		t.Errorf("expected quarter window 26, got %d", cfg.Scoring.QuarterWindow)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/tally.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
