package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/WikiStats/internal/anniversary"
	"github.com/IshaanNene/WikiStats/internal/config"
)

var (
	anniversariesURL    string
	anniversariesMonths string
)

// anniversariesCmd creates the "anniversaries" subcommand.
func anniversariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anniversaries",
		Short: "Build markdown tables of selected anniversaries per month",
		Long: `Fetch <url>/<Month> for each month of the "Wikipedia:Selected anniversaries"
namespace and write <work-dir>/tables_of_anniversaries/anniversaries_<month>.md
with one Date | Event row per event.`,
		Args: cobra.NoArgs,
		RunE: runAnniversaries,
	}

	cmd.Flags().StringVar(&anniversariesURL, "url", "", "selected anniversaries namespace URL")
	cmd.Flags().StringVar(&anniversariesMonths, "months", "", "comma-separated months (default all)")
	cmd.Flags().StringVarP(&workDir, "work-dir", "w", "", "directory to write results under")

	return cmd
}

func runAnniversaries(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if anniversariesURL != "" {
			cfg.Anniversaries.NamespaceURL = anniversariesURL
		}
		if months := splitList(anniversariesMonths); len(months) > 0 {
			cfg.Anniversaries.Months = months
		}
		if workDir != "" {
			cfg.Output.WorkDir = workDir
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	builder := anniversary.NewBuilder(a.fetcher, a.sink, a.metrics, a.logger)
	paths, err := builder.Build(ctx, a.cfg.Anniversaries.NamespaceURL, a.cfg.Anniversaries.Months, a.cfg.Output.WorkDir)
	if err != nil {
		return fmt.Errorf("anniversary tables: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tables to %s\n",
		len(paths), filepath.Join(a.cfg.Output.WorkDir, anniversary.OutputDir))
	return nil
}
