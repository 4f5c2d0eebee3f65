package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Format", cfg.Output.Format, FormatText},
		{"Structure", cfg.Output.Structure, false},
		{"Color", cfg.Output.Color, true},
		{"FollowIncludes", cfg.Output.FollowIncludes, false},
		{"Verbosity", cfg.Log.Verbosity, 0},
		{"File", cfg.Log.File, ""},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")

	yaml := `output:
  format: yaml
  follow_includes: true
log:
  verbosity: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Output.Format != FormatYAML {
		t.Errorf("Format: got %q, want %q", cfg.Output.Format, FormatYAML)
	}
	if !cfg.Output.FollowIncludes {
		t.Error("FollowIncludes: got false, want true")
	}
	if cfg.Log.Verbosity != 2 {
		t.Errorf("Verbosity: got %d, want 2", cfg.Log.Verbosity)
	}

	// Verify unspecified fields retain defaults.
	if !cfg.Output.Color {
		t.Error("Color: got false, want true (default)")
	}
}

func TestLoadNoConfigReturnsDefaults(t *testing.T) {
	// Use an empty temp dir so no config file is discovered.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestDiscoverPriority(t *testing.T) {
	dir := t.TempDir()

	content := []byte("output:\n  format: text\n")

	// Create all four files; mkparse.yml (first in order) should win.
	names := []string{"mkparse.yml", "mkparse.yaml", ".mkparse.yml", ".mkparse.yaml"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Remove the winner each round; the next name in order takes over.
	for i, name := range names {
		got := Discover(dir)
		want := filepath.Join(dir, name)
		if got != want {
			t.Errorf("round %d: Discover = %q, want %q", i, got, want)
		}
		if err := os.Remove(want); err != nil {
			t.Fatal(err)
		}
	}

	if got := Discover(dir); got != "" {
		t.Errorf("after removing all files: Discover = %q, want empty string", got)
	}
}

func TestDiscoverNoFiles(t *testing.T) {
	dir := t.TempDir()
	got := Discover(dir)
	if got != "" {
		t.Errorf("Discover in empty dir: got %q, want empty string", got)
	}
}

func TestLoadDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mkparse.yaml")

	yaml := `output:
  structure: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.Output.Structure {
		t.Error("Structure: got false, want true")
	}

	// Unspecified fields should retain defaults.
	if cfg.Output.Format != FormatText {
		t.Errorf("Format: got %q, want %q (default)", cfg.Output.Format, FormatText)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")

	if err := os.WriteFile(path, []byte("{{{{not valid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "format.yml")

	if err := os.WriteFile(path, []byte("output:\n  format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
	if !strings.Contains(err.Error(), `unknown output format "json"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Error("expected error for missing explicit path, got nil")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yml")

	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	// Empty file should result in all defaults.
	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("expected default config for empty file, got %+v", cfg)
	}
}
