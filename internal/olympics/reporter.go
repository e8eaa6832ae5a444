package olympics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/IshaanNene/WikiStats/internal/chart"
	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/pipeline"
	"github.com/IshaanNene/WikiStats/internal/ranking"
	"github.com/IshaanNene/WikiStats/internal/report"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// OutputDir is the subdirectory of the work dir the report is written to.
const OutputDir = "olympic_games_results"

// TotalChartName is the base name of the summer vs winter gold chart.
const TotalChartName = "total_medal_ranking"

// SportChartName returns the base name of the chart for sport.
func SportChartName(sport string) string {
	return strings.ReplaceAll(sport, string(os.PathSeparator), "-") + "_medal_ranking"
}

// SummaryFileName returns the best-country table file name for kind.
func SummaryFileName(kind types.MedalKind) string {
	return "best_of_sport_by_" + string(kind) + ".md"
}

// ReporterOptions tunes a Reporter.
type ReporterOptions struct {
	// MedalKind ranks the best country per sport. Defaults to Gold.
	MedalKind types.MedalKind
	// Concurrency bounds simultaneous country page fetches. Defaults to 1.
	Concurrency int
}

// Reporter renders medal charts and the best-country summary.
type Reporter struct {
	collector *Collector
	renderers []chart.Renderer
	opts      ReporterOptions
	sink      *pipeline.Sink
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewReporter creates a Reporter. sink and metrics may be nil.
func NewReporter(c *Collector, renderers []chart.Renderer, opts ReporterOptions, sink *pipeline.Sink, metrics *observability.Metrics, logger *slog.Logger) *Reporter {
	if opts.MedalKind == "" {
		opts.MedalKind = types.Gold
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Reporter{
		collector: c,
		renderers: renderers,
		opts:      opts,
		sink:      sink,
		metrics:   metrics,
		logger:    logger.With("component", "olympics_reporter"),
	}
}

// SportLeader pairs a sport with its leading country.
type SportLeader struct {
	Sport  string
	Leader ranking.Leader
}

// Result is everything a report run collected and wrote.
type Result struct {
	Overview map[string]CountryOverview
	Sports   []SportResult
	Leaders  []SportLeader
	Files    []string
}

// Report collects the overview and per-sport medals and writes the charts
// and best-country table under <workDir>/olympic_games_results.
func (r *Reporter) Report(ctx context.Context, medalTableURL string, sports []string, workDir string) (*Result, error) {
	if _, err := types.ParseMedalKind(string(r.opts.MedalKind)); err != nil {
		return nil, err
	}

	outDir := filepath.Join(workDir, OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "filesystem", Err: fmt.Errorf("create %s: %w", outDir, err)}
	}

	overview, err := r.collector.CollectCountryOverview(ctx, medalTableURL)
	if err != nil {
		return nil, err
	}
	if err := r.sink.Emit(overviewRecords(medalTableURL, r.collector.Countries(), overview)...); err != nil {
		return nil, err
	}

	result := &Result{Overview: overview}
	countries := r.collector.Countries()

	paths, err := r.writeChart(totalChart(countries, overview), outDir, TotalChartName)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, paths...)

	sportResults, err := r.collectSports(ctx, overview, countries, sports)
	if err != nil {
		return nil, err
	}
	result.Sports = sportResults

	rows := make([][]string, 0, len(sportResults))
	for _, sr := range sportResults {
		paths, err := r.writeChart(sportChart(sr, countries), outDir, SportChartName(sr.Sport))
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, paths...)

		leader, err := ranking.PickLeader(sr.Medals, r.opts.MedalKind)
		if err != nil {
			return nil, err
		}
		result.Leaders = append(result.Leaders, SportLeader{Sport: sr.Sport, Leader: leader})
		rows = append(rows, []string{sr.Sport, leader.String()})

		r.logger.Info("sport ranked", "sport", sr.Sport, "kind", r.opts.MedalKind, "leader", leader.String(), "outcome", leader.Outcome)

		if err := r.sink.Emit(sportRecords(overview, countries, sr)...); err != nil {
			return nil, err
		}
	}

	summaryPath := filepath.Join(outDir, SummaryFileName(r.opts.MedalKind))
	table := report.Table{
		Heading: fmt.Sprintf("Best Scandinavian country in Summer Olympic sports, based on most number of %s medals", r.opts.MedalKind),
		Header:  []string{"Sport", "Best Country"},
		Rows:    rows,
	}
	if err := report.WriteFile(summaryPath, table); err != nil {
		return nil, &types.StorageError{Backend: "markdown", Err: err}
	}
	r.metrics.TablesWritten.Add(1)
	result.Files = append(result.Files, summaryPath)

	r.logger.Info("olympics report written", "dir", outDir, "files", len(result.Files))
	return result, nil
}

// collectSports fetches the medals of every (sport, country) pair with at
// most opts.Concurrency fetches in flight. Results keep the sport order.
func (r *Reporter) collectSports(ctx context.Context, overview map[string]CountryOverview, countries, sports []string) ([]SportResult, error) {
	counts := make([][]types.MedalCount, len(sports))
	for i := range counts {
		counts[i] = make([]types.MedalCount, len(countries))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for si, sport := range sports {
		for ci, country := range countries {
			countryURL := overview[country].URL
			g.Go(func() error {
				medals, err := r.collector.CollectSportMedals(gctx, countryURL, sport)
				if err != nil {
					return fmt.Errorf("%s in %s: %w", country, sport, err)
				}
				counts[si][ci] = medals
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SportResult, len(sports))
	for si, sport := range sports {
		medals := make(map[string]types.MedalCount, len(countries))
		for ci, country := range countries {
			medals[country] = counts[si][ci]
		}
		results[si] = SportResult{Sport: sport, Medals: medals}
	}
	return results, nil
}

func (r *Reporter) writeChart(c *chart.BarChart, dir, base string) ([]string, error) {
	paths, err := chart.WriteAll(r.renderers, c, dir, base)
	r.metrics.ChartsRendered.Add(int64(len(paths)))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("chart written", "title", c.Title, "files", paths)
	return paths, nil
}

func totalChart(countries []string, overview map[string]CountryOverview) *chart.BarChart {
	summer := make([]float64, len(countries))
	winter := make([]float64, len(countries))
	for i, country := range countries {
		summer[i] = float64(overview[country].Medals.Summer)
		winter[i] = float64(overview[country].Medals.Winter)
	}
	return &chart.BarChart{
		Title:      "Gold Medals in Summer and Winter Olympics",
		XLabel:     "Countries",
		YLabel:     "Gold Medals",
		Categories: countries,
		Series: []chart.Series{
			{Name: "Summer Gold", Values: summer},
			{Name: "Winter Gold", Values: winter},
		},
	}
}

func sportChart(sr SportResult, countries []string) *chart.BarChart {
	gold := make([]float64, len(countries))
	silver := make([]float64, len(countries))
	bronze := make([]float64, len(countries))
	for i, country := range countries {
		m := sr.Medals[country]
		gold[i] = float64(m.Gold)
		silver[i] = float64(m.Silver)
		bronze[i] = float64(m.Bronze)
	}
	return &chart.BarChart{
		Title:      sr.Sport + " Medals by Scandinavian Countries",
		XLabel:     "Countries",
		YLabel:     "Medals",
		Categories: countries,
		Series: []chart.Series{
			{Name: "Gold", Values: gold, Color: chart.GoldColor},
			{Name: "Silver", Values: silver, Color: chart.SilverColor},
			{Name: "Bronze", Values: bronze, Color: chart.BronzeColor},
		},
	}
}

func overviewRecords(source string, countries []string, overview map[string]CountryOverview) []*types.Record {
	recs := make([]*types.Record, 0, len(countries))
	for _, country := range countries {
		o := overview[country]
		rec := types.NewRecord(types.KindCountryOverview, source)
		rec.Set("country", country)
		rec.Set("url", o.URL)
		rec.Set("summer_gold", o.Medals.Summer)
		rec.Set("winter_gold", o.Medals.Winter)
		recs = append(recs, rec)
	}
	return recs
}

func sportRecords(overview map[string]CountryOverview, countries []string, sr SportResult) []*types.Record {
	recs := make([]*types.Record, 0, len(countries))
	for _, country := range countries {
		m := sr.Medals[country]
		rec := types.NewRecord(types.KindSportMedals, overview[country].URL)
		rec.Set("country", country)
		rec.Set("sport", sr.Sport)
		rec.Set("gold", m.Gold)
		rec.Set("silver", m.Silver)
		rec.Set("bronze", m.Bronze)
		rec.Set("total", m.Total())
		recs = append(recs, rec)
	}
	return recs
}
