package config

import "testing"

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.GameRoot != "" {
		t.Errorf("GameRoot = %q, want empty", cfg.GameRoot)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{GameRoot: "/games/example", LogLevel: "debug"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.GameRoot != cfg.GameRoot {
		t.Errorf("GameRoot = %q, want %q", loaded.GameRoot, cfg.GameRoot)
	}
	if loaded.LogLevel != cfg.LogLevel {
		t.Errorf("LogLevel = %q, want %q", loaded.LogLevel, cfg.LogLevel)
	}
}

func TestLoadAppliesEnvOverlay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MODREG_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q (from env)", cfg.LogLevel, "warn")
	}
}
