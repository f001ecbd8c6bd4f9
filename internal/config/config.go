// Package config loads splitmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (SPLITMUX_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .splitmux.yaml in current directory
//  2. ~/.config/splitmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Preset is a pane-replacement target bound to a digit key. An empty
// Command means a fresh interactive shell instead of a polled command.
type Preset struct {
	Title   string `yaml:"title"`
	Command string `yaml:"command"`
}

// Config holds all splitmux configuration.
type Config struct {
	// Shell to spawn in live panes. Empty resolves to $SHELL, then /bin/sh.
	Shell string `yaml:"shell"`

	// Orientation is the initial split: "vertical" or "horizontal".
	Orientation string `yaml:"orientation"`

	// Refresh is the polled-command refresh interval as a Go duration
	// string, e.g. "2s".
	Refresh string `yaml:"refresh"`

	// BufferLines caps each pane's retained output.
	BufferLines int `yaml:"buffer_lines"`

	// Panes is how many panes to create at startup.
	Panes int `yaml:"panes"`

	// Presets map digit keys ("1".."4") to pane-replacement targets.
	Presets map[string]Preset `yaml:"presets"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed duration (not from YAML, set after loading)
	RefreshDuration time.Duration `yaml:"-"`

	// ConfigFile is the path of the loaded config file (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Orientation: "vertical",
		Refresh:     "2s",
		BufferLines: 100,
		Panes:       2,
		Presets: map[string]Preset{
			"1": {Title: "Shell"},
			"2": {Title: "Files", Command: "ls -la"},
			"3": {Title: "Processes", Command: "ps aux | head -20"},
			"4": {Title: "Disk", Command: "df -h"},
		},
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	if cfg.Orientation != "vertical" && cfg.Orientation != "horizontal" {
		return nil, fmt.Errorf("invalid orientation %q (want vertical or horizontal)", cfg.Orientation)
	}

	var err error
	cfg.RefreshDuration, err = time.ParseDuration(cfg.Refresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".splitmux.yaml"); err == nil {
		return ".splitmux.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "splitmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Shell != "" {
		cfg.Shell = file.Shell
	}
	if file.Orientation != "" {
		cfg.Orientation = file.Orientation
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.BufferLines > 0 {
		cfg.BufferLines = file.BufferLines
	}
	if file.Panes > 0 {
		cfg.Panes = file.Panes
	}
	for key, preset := range file.Presets {
		cfg.Presets[key] = preset
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("SPLITMUX_SHELL"); v != "" {
		cfg.Shell = v
	}
	if v := os.Getenv("SPLITMUX_ORIENTATION"); v != "" {
		cfg.Orientation = v
	}
	if v := os.Getenv("SPLITMUX_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("SPLITMUX_BUFFER_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BufferLines = n
		}
	}
	if v := os.Getenv("SPLITMUX_PANES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Panes = n
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}
