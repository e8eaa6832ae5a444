package olympics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/IshaanNene/WikiStats/internal/chart"
	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/fetcher"
	"github.com/IshaanNene/WikiStats/internal/ranking"
	"github.com/IshaanNene/WikiStats/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const medalTablePage = `<html><body>
<table class="wikitable sortable">
<tr><th>Team</th><th>Summer gold</th></tr>
<tr><td><span class="flagicon"></span><a href="/wiki/Finland_at_the_Olympics">Finland</a> (FIN)</td><td>101</td></tr>
<tr><td><span class="flagicon"></span><a href="/wiki/Norway_at_the_Olympics">Norway</a> (NOR)</td><td>60</td></tr>
<tr><td><a href="/wiki/Sweden_at_the_Olympics">Sweden</a> (SWE) [A]</td><td>148</td></tr>
</table>
<table class="wikitable"><tr><td><a href="/wiki/Denmark_at_the_Olympics">Denmark</a></td></tr></table>
</body></html>`

// Legacy heading markup: the id sits on a headline span.
const norwayPage = `<html><body>
<h2><span class="mw-headline" id="Medals_by_summer_sport">Medals by summer sport</span></h2>
<table class="wikitable sortable">
<tr><th>Sport</th><th>Gold</th><th>Silver</th><th>Bronze</th><th>Total</th></tr>
<tr><th><a href="/wiki/Sailing_at_the_Summer_Olympics">Sailing</a></th><td>17</td><td>11</td><td>3</td><td>31</td></tr>
<tr><th><a href="/wiki/Athletics_at_the_Summer_Olympics">Athletics</a></th><td>7</td><td>5</td><td>—</td><td>12</td></tr>
<tr class="sortbottom"><th>Totals (2 entries)</th><td>60</td><td>16</td><td>3</td><td>79</td></tr>
</table>
<h2><span class="mw-headline" id="Medals_by_winter_sport">Medals by winter sport</span></h2>
<p>Intro.</p>
<table class="wikitable">
<tr><th>Sport</th><th>Gold</th></tr>
<tr class="sortbottom totals"><th>Totals</th><td>148</td></tr>
</table>
</body></html>`

// Current heading markup with a capitalized id and no winter section.
const swedenPage = `<html><body>
<div class="mw-heading mw-heading3"><h3 id="Medals_by_Summer_Sport">Medals by Summer Sport</h3><span class="mw-editsection">edit</span></div>
<table class="wikitable">
<tr><th>Sport</th><th>Gold</th><th>Silver</th><th>Bronze</th></tr>
<tr><th><a href="/wiki/Sailing">Sailing</a></th><td>10</td><td>12</td><td>9</td></tr>
<tr><th><a href="/wiki/Athletics">Athletics</a></th><td> 7 </td><td>6</td><td>5</td></tr>
<tr class="sortbottom"><th>Totals</th><td>n/a</td><td>1,148</td></tr>
</table>
</body></html>`

type fixtureServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{hits: make(map[string]int)}
	pages := map[string]string{
		"/wiki/All-time_Olympic_Games_medal_table": medalTablePage,
		"/wiki/Norway_at_the_Olympics":             norwayPage,
		"/wiki/Sweden_at_the_Olympics":             swedenPage,
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.hits[r.URL.Path]++
		fs.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fixtureServer) hitCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func newHTTPFetcher(t *testing.T) fetcher.Fetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	f, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, nil, testLogger)
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	return f
}

func TestCollectCountryOverview(t *testing.T) {
	srv := newFixtureServer(t)
	c := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)

	overview, err := c.CollectCountryOverview(context.Background(), srv.URL+"/wiki/All-time_Olympic_Games_medal_table")
	if err != nil {
		t.Fatalf("CollectCountryOverview: %v", err)
	}

	tests := []struct {
		country string
		url     string
		medals  SeasonMedals
	}{
		{"Norway", srv.URL + "/wiki/Norway_at_the_Olympics", SeasonMedals{Summer: 60, Winter: 148}},
		{"Sweden", srv.URL + "/wiki/Sweden_at_the_Olympics", SeasonMedals{Summer: 1148, Winter: 0}},
		{"Denmark", "", SeasonMedals{}},
	}
	for _, tt := range tests {
		got, ok := overview[tt.country]
		if !ok {
			t.Errorf("%s missing from overview", tt.country)
			continue
		}
		if got.URL != tt.url {
			t.Errorf("%s url = %q, want %q", tt.country, got.URL, tt.url)
		}
		if got.Medals != tt.medals {
			t.Errorf("%s medals = %+v, want %+v", tt.country, got.Medals, tt.medals)
		}
	}
	if _, ok := overview["Finland"]; ok {
		t.Error("non-target country included")
	}
	if len(overview) != 3 {
		t.Errorf("overview has %d entries, want 3", len(overview))
	}
}

func TestCollectSportMedals(t *testing.T) {
	srv := newFixtureServer(t)
	c := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)
	ctx := context.Background()

	tests := []struct {
		name  string
		path  string
		sport string
		want  types.MedalCount
	}{
		{"legacy markup", "/wiki/Norway_at_the_Olympics", "Sailing", types.MedalCount{Gold: 17, Silver: 11, Bronze: 3}},
		{"dash counts as zero", "/wiki/Norway_at_the_Olympics", "athletics", types.MedalCount{Gold: 7, Silver: 5}},
		{"current markup", "/wiki/Sweden_at_the_Olympics", "Sailing", types.MedalCount{Gold: 10, Silver: 12, Bronze: 9}},
		{"trimmed cells", "/wiki/Sweden_at_the_Olympics", "Athletics", types.MedalCount{Gold: 7, Silver: 6, Bronze: 5}},
		{"unknown sport", "/wiki/Sweden_at_the_Olympics", "Handball", types.MedalCount{}},
		{"no summer section", "/wiki/All-time_Olympic_Games_medal_table", "Sailing", types.MedalCount{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CollectSportMedals(ctx, srv.URL+tt.path, tt.sport)
			if err != nil {
				t.Fatalf("CollectSportMedals: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCollectSportMedalsEmptyURL(t *testing.T) {
	c := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)
	got, err := c.CollectSportMedals(context.Background(), "", "Sailing")
	if err != nil || got != (types.MedalCount{}) {
		t.Errorf("got %+v, %v; want zero, nil", got, err)
	}
}

func TestCollectSportMedalsFetchError(t *testing.T) {
	srv := newFixtureServer(t)
	c := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)

	_, err := c.CollectSportMedals(context.Background(), srv.URL+"/wiki/Missing", "Sailing")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"60", 60, true},
		{" 1,148 ", 1148, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCount(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseCount(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReport(t *testing.T) {
	srv := newFixtureServer(t)
	cached, err := fetcher.NewCachingFetcher(newHTTPFetcher(t), "", nil, testLogger)
	if err != nil {
		t.Fatalf("NewCachingFetcher: %v", err)
	}
	renderers, err := chart.NewRenderers("png", chart.Size{Width: 10, Height: 6})
	if err != nil {
		t.Fatalf("NewRenderers: %v", err)
	}

	collector := NewCollector(cached, config.DefaultCountries, testLogger)
	reporter := NewReporter(collector, renderers, ReporterOptions{Concurrency: 3}, nil, nil, testLogger)

	workDir := t.TempDir()
	sports := []string{"Sailing", "Athletics", "Handball"}
	result, err := reporter.Report(context.Background(), srv.URL+"/wiki/All-time_Olympic_Games_medal_table", sports, workDir)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	outDir := filepath.Join(workDir, OutputDir)
	for _, name := range []string{
		"total_medal_ranking.png",
		"Sailing_medal_ranking.png",
		"Athletics_medal_ranking.png",
		"Handball_medal_ranking.png",
		"best_of_sport_by_Gold.md",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if len(result.Files) != 5 {
		t.Errorf("result lists %d files, want 5", len(result.Files))
	}

	wantLeaders := map[string]string{
		"Sailing":   "Norway",
		"Athletics": "Norway/Sweden",
		"Handball":  "None",
	}
	for _, sl := range result.Leaders {
		if got := sl.Leader.String(); got != wantLeaders[sl.Sport] {
			t.Errorf("%s leader = %q, want %q", sl.Sport, got, wantLeaders[sl.Sport])
		}
	}
	if result.Leaders[2].Leader.Outcome != ranking.NoLeader {
		t.Errorf("Handball outcome = %v, want NoLeader", result.Leaders[2].Leader.Outcome)
	}

	md, err := os.ReadFile(filepath.Join(outDir, "best_of_sport_by_Gold.md"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	summary := string(md)
	if !strings.HasPrefix(summary, "Best Scandinavian country in Summer Olympic sports, based on most number of Gold medals") {
		t.Errorf("summary heading wrong:\n%s", summary)
	}
	for _, want := range []string{"Sport", "Best Country", "Sailing", "Norway/Sweden", "None"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	for _, path := range []string{"/wiki/Norway_at_the_Olympics", "/wiki/Sweden_at_the_Olympics"} {
		if n := srv.hitCount(path); n != 1 {
			t.Errorf("%s fetched %d times, want 1 with the page cache", path, n)
		}
	}
	if n := srv.hitCount("/wiki/Denmark_at_the_Olympics"); n != 0 {
		t.Errorf("Denmark page fetched %d times, want 0", n)
	}
}

func TestReportMedalKindNamesSummary(t *testing.T) {
	srv := newFixtureServer(t)
	renderers, _ := chart.NewRenderers("html", chart.Size{Width: 10, Height: 6})
	collector := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)
	reporter := NewReporter(collector, renderers, ReporterOptions{MedalKind: types.Bronze}, nil, nil, testLogger)

	workDir := t.TempDir()
	result, err := reporter.Report(context.Background(), srv.URL+"/wiki/All-time_Olympic_Games_medal_table", []string{"Sailing"}, workDir)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got := result.Leaders[0].Leader.String(); got != "Sweden" {
		t.Errorf("bronze leader = %q, want Sweden", got)
	}
	if _, err := os.Stat(filepath.Join(workDir, OutputDir, "best_of_sport_by_Bronze.md")); err != nil {
		t.Errorf("bronze summary not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(workDir, OutputDir, "Sailing_medal_ranking.html")); err != nil {
		t.Errorf("html chart not written: %v", err)
	}
}

func TestReportRejectsUnknownKind(t *testing.T) {
	srv := newFixtureServer(t)
	renderers, _ := chart.NewRenderers("png", chart.Size{Width: 10, Height: 6})
	collector := NewCollector(newHTTPFetcher(t), config.DefaultCountries, testLogger)
	reporter := NewReporter(collector, renderers, ReporterOptions{MedalKind: types.MedalKind("gold")}, nil, nil, testLogger)

	_, err := reporter.Report(context.Background(), srv.URL+"/wiki/All-time_Olympic_Games_medal_table", []string{"Sailing"}, t.TempDir())
	if !errors.Is(err, types.ErrInvalidMedalKind) {
		t.Fatalf("expected ErrInvalidMedalKind, got %v", err)
	}
	if n := srv.hitCount("/wiki/All-time_Olympic_Games_medal_table"); n != 0 {
		t.Errorf("medal table fetched %d times before validation", n)
	}
}

func TestSportRecordsCarryTotal(t *testing.T) {
	sr := SportResult{Sport: "Sailing", Medals: map[string]types.MedalCount{"Norway": {Gold: 17, Silver: 11, Bronze: 3}}}
	recs := sportRecords(map[string]CountryOverview{}, []string{"Norway"}, sr)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if v, _ := recs[0].Get("total"); v != 31 {
		t.Errorf("total = %v, want 31", v)
	}
}
