package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/WikiStats/internal/chart"
	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/olympics"
	"github.com/IshaanNene/WikiStats/internal/types"
)

var (
	olympicsURL         string
	olympicsSports      string
	olympicsCountries   string
	olympicsMedal       string
	olympicsConcurrency int
	chartFormat         string
)

// olympicsCmd creates the "olympics" subcommand.
func olympicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "olympics",
		Short: "Report Olympic medal statistics for the configured countries",
		Long: `Scrape the all-time Olympic Games medal table and each country's Olympics
page, then write to <work-dir>/olympic_games_results/:

  total_medal_ranking.png     summer vs winter gold per country
  <Sport>_medal_ranking.png   gold, silver and bronze per country
  best_of_sport_by_Gold.md    best country per sport`,
		Args: cobra.NoArgs,
		RunE: runOlympics,
	}

	cmd.Flags().StringVar(&olympicsURL, "url", "", "all-time medal table URL")
	cmd.Flags().StringVar(&olympicsSports, "sports", "", "comma-separated summer sports")
	cmd.Flags().StringVar(&olympicsCountries, "countries", "", "comma-separated countries to compare")
	cmd.Flags().StringVar(&olympicsMedal, "medal", "", "medal kind to rank by: Gold, Silver, Bronze")
	cmd.Flags().IntVarP(&olympicsConcurrency, "concurrency", "n", 0, "concurrent country page fetches")
	cmd.Flags().StringVar(&chartFormat, "format", "", "chart format: png, html, both")
	cmd.Flags().StringVarP(&workDir, "work-dir", "w", "", "directory to write results under")

	return cmd
}

func runOlympics(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if olympicsURL != "" {
			cfg.Olympics.MedalTableURL = olympicsURL
		}
		if sports := splitList(olympicsSports); len(sports) > 0 {
			cfg.Olympics.Sports = sports
		}
		if countries := splitList(olympicsCountries); len(countries) > 0 {
			cfg.Olympics.Countries = countries
		}
		if olympicsMedal != "" {
			cfg.Olympics.MedalKind = olympicsMedal
		}
		if olympicsConcurrency > 0 {
			cfg.Olympics.Concurrency = olympicsConcurrency
		}
		if chartFormat != "" {
			cfg.Charts.Format = chartFormat
		}
		if workDir != "" {
			cfg.Output.WorkDir = workDir
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	kind, err := types.ParseMedalKind(a.cfg.Olympics.MedalKind)
	if err != nil {
		return err
	}
	renderers, err := chart.NewRenderers(a.cfg.Charts.Format, chart.Size{Width: a.cfg.Charts.Width, Height: a.cfg.Charts.Height})
	if err != nil {
		return err
	}

	collector := olympics.NewCollector(a.fetcher, a.cfg.Olympics.Countries, a.logger)
	reporter := olympics.NewReporter(collector, renderers, olympics.ReporterOptions{
		MedalKind:   kind,
		Concurrency: a.cfg.Olympics.Concurrency,
	}, a.sink, a.metrics, a.logger)

	ctx, stop := signalContext()
	defer stop()

	a.logger.Info("starting olympics report",
		"url", a.cfg.Olympics.MedalTableURL,
		"countries", a.cfg.Olympics.Countries,
		"sports", a.cfg.Olympics.Sports,
		"medal", kind,
	)

	result, err := reporter.Report(ctx, a.cfg.Olympics.MedalTableURL, a.cfg.Olympics.Sports, a.cfg.Output.WorkDir)
	if err != nil {
		return fmt.Errorf("olympics report: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Best country by %s medals:\n", kind)
	for _, sl := range result.Leaders {
		fmt.Fprintf(out, "  %-12s %s\n", sl.Sport, sl.Leader)
	}
	fmt.Fprintf(out, "Results written to %s\n", filepath.Join(a.cfg.Output.WorkDir, olympics.OutputDir))
	return nil
}
