package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/fetcher"
	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/pipeline"
	"github.com/IshaanNene/WikiStats/internal/storage"
)

var (
	cfgFile string
	verbose bool
	workDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wikistats",
		Short: "WikiStats: Wikipedia medal statistics and anniversary tables",
		Long: `WikiStats scrapes Wikipedia and writes small reports:

  olympics       medal bar charts and the best country per summer sport
  anniversaries  one markdown table of selected anniversaries per month
  links          hyperlinks, article links or image sources of a page`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(olympicsCmd())
	rootCmd.AddCommand(anniversariesCmd())
	rootCmd.AddCommand(linksCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every scraping command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	fetcher fetcher.Fetcher
	sink    *pipeline.Sink
}

// newApp loads the config, applies overrides, validates it and builds the
// fetcher stack and optional record sink.
func newApp(override func(*config.Config)) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)
	metrics := observability.NewMetrics()

	f, err := fetcher.New(cfg, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create storage: %w", err)
	}
	var sink *pipeline.Sink
	if store != nil {
		sink = pipeline.NewSink(pipeline.NewDefault(logger), store, metrics)
	}

	return &app{cfg: cfg, logger: logger, metrics: metrics, fetcher: f, sink: sink}, nil
}

// Close flushes the record sink and releases the fetcher.
func (a *app) Close() {
	if err := a.sink.Close(); err != nil {
		a.logger.Error("close storage", "error", err)
	}
	if err := a.fetcher.Close(); err != nil {
		a.logger.Warn("close fetcher", "error", err)
	}
	a.metrics.LogSummary(a.logger)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("WikiStats %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("app", config.AppName)
}

// splitList parses a comma-separated flag value.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
