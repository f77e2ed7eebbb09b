package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaultAndFile(t *testing.T) {
	Use(Default())
	t.Cleanup(func() { Use(Default()) })

	if Active().IDTag == "" {
		t.Fatalf("expected default id tag to be non-empty")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "id_tag: \"custom_\"\npretty_json: false\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write sample config: %v", err)
	}

	if err := Apply(path); err != nil {
		t.Fatalf("apply config: %v", err)
	}

	cfg := Active()
	if cfg.IDTag != "custom_" {
		t.Fatalf("expected id tag from sample config, got %q", cfg.IDTag)
	}
	if cfg.PrettyJSON {
		t.Fatalf("expected pretty_json false from sample config")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from sample config, got %q", cfg.LogLevel)
	}

	if err := Apply(""); err != nil {
		t.Fatalf("reset config: %v", err)
	}
	if Active().IDTag != Default().IDTag {
		t.Fatalf("expected defaults restored")
	}
}

func TestApplyMissingFile(t *testing.T) {
	if err := Apply(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
