package anniversary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/IshaanNene/WikiStats/internal/fetcher"
	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/pipeline"
	"github.com/IshaanNene/WikiStats/internal/report"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// OutputDir is the subdirectory of the work dir the tables are written to.
const OutputDir = "tables_of_anniversaries"

// Builder fetches month pages and writes one markdown table per month.
type Builder struct {
	fetcher fetcher.Fetcher
	sink    *pipeline.Sink
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a Builder. sink and metrics may be nil.
func NewBuilder(f fetcher.Fetcher, sink *pipeline.Sink, metrics *observability.Metrics, logger *slog.Logger) *Builder {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Builder{
		fetcher: f,
		sink:    sink,
		metrics: metrics,
		logger:  logger.With("component", "anniversaries"),
	}
}

// FileName returns the table file name for month.
func FileName(month string) string {
	return "anniversaries_" + strings.ToLower(month) + ".md"
}

// Build writes <workDir>/tables_of_anniversaries/anniversaries_<month>.md
// for every month and returns the paths written. All month names are
// validated before anything is fetched.
func (b *Builder) Build(ctx context.Context, namespaceURL string, months []string, workDir string) ([]string, error) {
	normalized := make([]string, len(months))
	for i, m := range months {
		month, err := NormalizeMonth(m)
		if err != nil {
			return nil, err
		}
		normalized[i] = month
	}

	outDir := filepath.Join(workDir, OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "filesystem", Err: fmt.Errorf("create %s: %w", outDir, err)}
	}

	namespaceURL = strings.TrimRight(namespaceURL, "/")
	paths := make([]string, 0, len(normalized))
	for _, month := range normalized {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := b.buildMonth(ctx, namespaceURL+"/"+month, month, outDir)
		if err != nil {
			return paths, fmt.Errorf("build %s: %w", month, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (b *Builder) buildMonth(ctx context.Context, pageURL, month, outDir string) (string, error) {
	resp, err := fetcher.Get(ctx, b.fetcher, pageURL)
	if err != nil {
		return "", err
	}
	doc, err := resp.Document()
	if err != nil {
		return "", &types.ParseError{URL: pageURL, Err: err}
	}
	passages, err := ExtractDocument(doc, month)
	if err != nil {
		return "", err
	}
	rows := ToTable(passages)

	path := filepath.Join(outDir, FileName(month))
	if err := report.WriteFile(path, MarkdownTable(rows)); err != nil {
		return "", &types.StorageError{Backend: "markdown", Err: err}
	}
	b.metrics.TablesWritten.Add(1)

	b.logger.Info("anniversary table written",
		"month", month,
		"passages", len(passages),
		"rows", len(rows),
		"path", path,
	)

	if err := b.sink.Emit(records(pageURL, month, rows)...); err != nil {
		return "", err
	}
	return path, nil
}

func records(source, month string, rows []Row) []*types.Record {
	recs := make([]*types.Record, len(rows))
	for i, r := range rows {
		rec := types.NewRecord(types.KindAnniversary, source)
		rec.Set("month", month)
		rec.Set("date", r.Date)
		rec.Set("event", r.Event)
		recs[i] = rec
	}
	return recs
}
