package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/splitmux/splitmux/internal/app"
	"github.com/splitmux/splitmux/internal/config"
	telem "github.com/splitmux/splitmux/internal/otel"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	flagShell       string
	flagOrientation string
	flagRefresh     string
	flagBufferLines int
	flagPanes       int
)

var rootCmd = &cobra.Command{
	Use:   "splitmux",
	Short: "Split-screen terminal multiplexer with PTY-backed panes",
	Long: `splitmux runs multiple shell sessions in a split-screen layout.

Each pane is backed either by a live shell on a pseudo-terminal or by a
one-shot command re-executed on a fixed interval. Keystrokes go to the
focused pane; Tab switches focus, v/h set the split orientation, and the
digit keys swap a pane's command from the configured presets.

Full terminal emulation (ANSI escape interpretation) is out of scope:
pane output is line-buffered raw text, so full-screen programs inside a
pane will not render correctly.

Configuration is loaded from .splitmux.yaml or environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMux(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. On unrecoverable failure the error is
// printed to standard output, after the TUI has restored the terminal mode,
// and the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.Flags().StringVar(&flagShell, "shell", "", "shell to spawn in live panes (default: $SHELL, then /bin/sh)")
	rootCmd.Flags().StringVar(&flagOrientation, "orientation", "", "initial split orientation: vertical, horizontal")
	rootCmd.Flags().StringVar(&flagRefresh, "refresh", "", "polled-command refresh interval, e.g. 2s")
	rootCmd.Flags().IntVar(&flagBufferLines, "buffer-lines", 0, "retained output lines per pane")
	rootCmd.Flags().IntVar(&flagPanes, "panes", 0, "number of panes at startup")
}

func runMux(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Load configuration: defaults -> config file -> env vars -> flags.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}
	var metrics *telem.Metrics
	if tel != nil {
		defer tel.Shutdown(ctx)
		metrics = tel.Metrics
	}

	a := &app.App{
		Config:  cfg,
		Metrics: metrics,
	}
	return a.Run(ctx)
}

// applyFlags overrides config values with explicitly set flags. Flags beat
// both the config file and the environment.
func applyFlags(cfg *config.Config) error {
	if flagShell != "" {
		cfg.Shell = flagShell
	}
	if flagOrientation != "" {
		if flagOrientation != "vertical" && flagOrientation != "horizontal" {
			return fmt.Errorf("invalid orientation %q (want vertical or horizontal)", flagOrientation)
		}
		cfg.Orientation = flagOrientation
	}
	if flagRefresh != "" {
		d, err := time.ParseDuration(flagRefresh)
		if err != nil {
			return fmt.Errorf("invalid refresh interval %q: %w", flagRefresh, err)
		}
		cfg.Refresh = flagRefresh
		cfg.RefreshDuration = d
	}
	if flagBufferLines > 0 {
		cfg.BufferLines = flagBufferLines
	}
	if flagPanes > 0 {
		cfg.Panes = flagPanes
	}
	return nil
}
