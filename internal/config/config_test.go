package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devlog/devlog-cli/internal/config"
)

func TestLoadFirstRunCreatesTemplate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load on first run: %v", err)
	}
	if cfg.ServerURL != config.DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, config.DefaultServerURL)
	}
	if cfg.ExportDays != config.DefaultExportDays {
		t.Errorf("ExportDays = %d, want %d", cfg.ExportDays, config.DefaultExportDays)
	}

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, ".devlog", "config.json")); err != nil {
		t.Errorf("expected template config file to exist: %v", err)
	}
}

func TestLoadStripsCommentsAndBackfills(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".devlog")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "// custom server only\n{\n  \"server_url\": \"https://devlog.example.com/api\"\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://devlog.example.com/api" {
		t.Errorf("ServerURL = %q, want custom value", cfg.ServerURL)
	}
	// Unset fields fall back to defaults.
	if cfg.ExportDays != config.DefaultExportDays {
		t.Errorf("ExportDays = %d, want default %d", cfg.ExportDays, config.DefaultExportDays)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".devlog")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err == nil {
		t.Fatal("expected error for corrupt config, got nil")
	}
	// Still usable defaults.
	if cfg.ServerURL != config.DefaultServerURL {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
}
