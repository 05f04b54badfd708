package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"imgstrip/internal/config"
	"imgstrip/internal/trace"
	"imgstrip/internal/ui"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "imgstrip [image...]",
		Short: "Combine images into a single horizontal or vertical strip",
		Long: `imgstrip arranges images edge to edge in a row or column with a fixed gap,
shows a live preview in the terminal and exports a full-resolution PNG.

Run without a subcommand to open the interactive composer, optionally
preloaded with the given images. Use "imgstrip compose" for scripted exports.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, args)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.imgstrip/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(newComposeCmd(opts))
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.Load()
}

func runTUI(ctx context.Context, opts *rootOptions, paths []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(logOut, logLevel(cfg.LogLevel, opts.verbose))

	shutdown := setupTracing(ctx)
	defer shutdown()

	model := ui.NewAppModel(ui.Options{Config: cfg, Paths: paths}).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func setupLogging(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func logLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupTracing installs the OTLP exporter when configured and returns a
// flush function.
func setupTracing(ctx context.Context) func() {
	provider, err := trace.Setup(ctx)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Warn("trace shutdown failed", "error", err)
		}
	}
}
