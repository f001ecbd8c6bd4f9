package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every env var Load consults so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPLITMUX_SHELL", "SPLITMUX_ORIENTATION", "SPLITMUX_REFRESH",
		"SPLITMUX_BUFFER_LINES", "SPLITMUX_PANES",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Orientation != "vertical" {
		t.Errorf("Orientation: got %q, want %q", cfg.Orientation, "vertical")
	}
	if cfg.Refresh != "2s" {
		t.Errorf("Refresh: got %q, want %q", cfg.Refresh, "2s")
	}
	if cfg.BufferLines != 100 {
		t.Errorf("BufferLines: got %d, want %d", cfg.BufferLines, 100)
	}
	if cfg.Panes != 2 {
		t.Errorf("Panes: got %d, want %d", cfg.Panes, 2)
	}
	if len(cfg.Presets) != 4 {
		t.Fatalf("Presets: got %d entries, want 4", len(cfg.Presets))
	}
	if cfg.Presets["1"].Command != "" {
		t.Errorf("Presets[1].Command: got %q, want empty (fresh shell)", cfg.Presets["1"].Command)
	}
	if cfg.Presets["2"].Command != "ls -la" {
		t.Errorf("Presets[2].Command: got %q, want %q", cfg.Presets["2"].Command, "ls -la")
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)
	t.Setenv("HOME", dir)
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: got %q, want empty", cfg.ConfigFile)
	}
	if cfg.RefreshDuration != 2*time.Second {
		t.Errorf("RefreshDuration: got %v, want %v", cfg.RefreshDuration, 2*time.Second)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".splitmux.yaml")
	content := `shell: /bin/bash
orientation: horizontal
refresh: "5s"
buffer_lines: 200
panes: 3
presets:
  "2":
    title: Uptime
    command: uptime
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Shell != "/bin/bash" {
		t.Errorf("Shell: got %q, want %q", cfg.Shell, "/bin/bash")
	}
	if cfg.Orientation != "horizontal" {
		t.Errorf("Orientation: got %q, want %q", cfg.Orientation, "horizontal")
	}
	if cfg.RefreshDuration != 5*time.Second {
		t.Errorf("RefreshDuration: got %v, want %v", cfg.RefreshDuration, 5*time.Second)
	}
	if cfg.BufferLines != 200 {
		t.Errorf("BufferLines: got %d, want %d", cfg.BufferLines, 200)
	}
	if cfg.Panes != 3 {
		t.Errorf("Panes: got %d, want %d", cfg.Panes, 3)
	}
	// File presets merge over defaults: "2" is replaced, "3" stays.
	if cfg.Presets["2"].Command != "uptime" {
		t.Errorf("Presets[2].Command: got %q, want %q", cfg.Presets["2"].Command, "uptime")
	}
	if cfg.Presets["3"].Command != "ps aux | head -20" {
		t.Errorf("Presets[3].Command: got %q, want default %q", cfg.Presets["3"].Command, "ps aux | head -20")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".splitmux.yaml")
	content := `shell: /bin/bash
orientation: horizontal
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)
	clearEnv(t)

	t.Setenv("SPLITMUX_SHELL", "/bin/zsh")
	t.Setenv("SPLITMUX_ORIENTATION", "vertical")
	t.Setenv("SPLITMUX_PANES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Shell != "/bin/zsh" {
		t.Errorf("Shell: got %q, want %q (env should override file)", cfg.Shell, "/bin/zsh")
	}
	if cfg.Orientation != "vertical" {
		t.Errorf("Orientation: got %q, want %q (env should override file)", cfg.Orientation, "vertical")
	}
	if cfg.Panes != 4 {
		t.Errorf("Panes: got %d, want %d", cfg.Panes, 4)
	}
}

func TestLoadRejectsInvalidOrientation(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)
	t.Setenv("HOME", dir)
	clearEnv(t)
	t.Setenv("SPLITMUX_ORIENTATION", "diagonal")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with orientation=diagonal: expected error, got nil")
	}
}

func TestLoadRejectsInvalidRefresh(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)
	t.Setenv("HOME", dir)
	clearEnv(t)
	t.Setenv("SPLITMUX_REFRESH", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with refresh=not-a-duration: expected error, got nil")
	}
}
