package olympics

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/WikiStats/internal/fetcher"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// Section ids of the per-season medal tables on a country's Olympics page.
// The lookup ignores case: some pages capitalize "Sport".
const (
	SummerSectionID = "Medals_by_summer_sport"
	WinterSectionID = "Medals_by_winter_sport"
)

var (
	countryNamePattern   = regexp.MustCompile(`^[^(\[]+`)
	summerHeadingPattern = regexp.MustCompile(`(?i)medals by summer sport`)
)

const sortbottomXPath = `.//tr[contains(concat(' ', normalize-space(@class), ' '), ' sortbottom ')]`

// Collector scrapes medal counts for a fixed set of countries.
type Collector struct {
	fetcher   fetcher.Fetcher
	countries []string
	logger    *slog.Logger
}

// NewCollector creates a Collector for countries.
func NewCollector(f fetcher.Fetcher, countries []string, logger *slog.Logger) *Collector {
	return &Collector{
		fetcher:   f,
		countries: append([]string(nil), countries...),
		logger:    logger.With("component", "olympics_collector"),
	}
}

// Countries returns the target countries in configured order.
func (c *Collector) Countries() []string {
	return append([]string(nil), c.countries...)
}

func (c *Collector) isTarget(name string) bool {
	for _, country := range c.countries {
		if country == name {
			return true
		}
	}
	return false
}

// CollectCountryOverview reads the first wikitable of the all-time medal
// table page, follows each target country's link and reads its summer and
// winter gold totals. Every target country gets an entry; countries not in
// the table have an empty URL and zero counts.
func (c *Collector) CollectCountryOverview(ctx context.Context, medalTableURL string) (map[string]CountryOverview, error) {
	resp, err := fetcher.Get(ctx, c.fetcher, medalTableURL)
	if err != nil {
		return nil, fmt.Errorf("collect overview: %w", err)
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: medalTableURL, Err: err}
	}
	pageURL := resp.FinalURL
	if pageURL == "" {
		pageURL = medalTableURL
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &types.ParseError{URL: medalTableURL, Err: err}
	}

	links := make(map[string]string, len(c.countries))
	doc.Find("table.wikitable").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		first := cells.First()
		name := strings.TrimSpace(countryNamePattern.FindString(first.Text()))
		if !c.isTarget(name) {
			return
		}
		if _, seen := links[name]; seen {
			return
		}
		href, ok := first.Find("a").First().Attr("href")
		if !ok {
			c.logger.Debug("country row has no link", "country", name)
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			c.logger.Debug("bad country link", "country", name, "href", href, "error", err)
			return
		}
		links[name] = base.ResolveReference(ref).String()
	})

	overview := make(map[string]CountryOverview, len(c.countries))
	for _, country := range c.countries {
		countryURL, ok := links[country]
		if !ok {
			c.logger.Warn("country not found in medal table", "country", country, "url", medalTableURL)
			overview[country] = CountryOverview{}
			continue
		}

		medals, err := c.seasonGold(ctx, countryURL)
		if err != nil {
			return nil, fmt.Errorf("collect overview for %s: %w", country, err)
		}
		c.logger.Info("country overview collected",
			"country", country,
			"url", countryURL,
			"summer_gold", medals.Summer,
			"winter_gold", medals.Winter,
		)
		overview[country] = CountryOverview{URL: countryURL, Medals: medals}
	}
	return overview, nil
}

// seasonGold reads the gold totals from the summary rows of the summer and
// winter medal tables on a country page.
func (c *Collector) seasonGold(ctx context.Context, countryURL string) (SeasonMedals, error) {
	resp, err := fetcher.Get(ctx, c.fetcher, countryURL)
	if err != nil {
		return SeasonMedals{}, err
	}
	doc, err := htmlquery.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return SeasonMedals{}, &types.ParseError{URL: countryURL, Err: err}
	}
	return SeasonMedals{
		Summer: c.sectionTotal(doc, countryURL, SummerSectionID),
		Winter: c.sectionTotal(doc, countryURL, WinterSectionID),
	}, nil
}

// sectionTotal finds the element whose id equals sectionID ignoring case,
// the first table after it, and the first integer cell of that table's
// sortbottom row. Any missing piece gives 0.
func (c *Collector) sectionTotal(doc *html.Node, pageURL, sectionID string) int {
	var section *html.Node
	for _, n := range htmlquery.Find(doc, "//*[@id]") {
		if strings.EqualFold(htmlquery.SelectAttr(n, "id"), sectionID) {
			section = n
			break
		}
	}
	if section == nil {
		c.logger.Debug("section not found", "url", pageURL, "id", sectionID)
		return 0
	}

	table := htmlquery.FindOne(section, "following::table[1]")
	if table == nil {
		c.logger.Debug("no table after section", "url", pageURL, "id", sectionID)
		return 0
	}
	row := htmlquery.FindOne(table, sortbottomXPath)
	if row == nil {
		c.logger.Debug("no sortbottom row", "url", pageURL, "id", sectionID)
		return 0
	}
	for _, cell := range htmlquery.Find(row, "./td") {
		if n, ok := parseCount(htmlquery.InnerText(cell)); ok {
			return n
		}
	}
	return 0
}

// parseCount parses a non-negative integer, tolerating surrounding space and
// thousands separators.
func parseCount(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// CollectSportMedals reads the Gold, Silver and Bronze counts for sport
// from the "Medals by summer sport" tables of a country page. The first
// row, in document order, whose header link text contains sport (ignoring
// case) wins. No match gives all zeros, as does an empty countryURL.
func (c *Collector) CollectSportMedals(ctx context.Context, countryURL, sport string) (types.MedalCount, error) {
	if countryURL == "" {
		return types.MedalCount{}, nil
	}
	resp, err := fetcher.Get(ctx, c.fetcher, countryURL)
	if err != nil {
		return types.MedalCount{}, fmt.Errorf("collect %s medals: %w", sport, err)
	}
	doc, err := resp.Document()
	if err != nil {
		return types.MedalCount{}, &types.ParseError{URL: countryURL, Err: err}
	}

	sportPattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(sport))
	for _, anchor := range summerSectionAnchors(doc) {
		table := anchor.NextAllFiltered("table").First()
		if table.Length() == 0 {
			continue
		}
		if medals, ok := findSportRow(table, sportPattern); ok {
			return medals, nil
		}
	}

	c.logger.Debug("sport not found", "url", countryURL, "sport", sport)
	return types.MedalCount{}, nil
}

// summerSectionAnchors returns the elements whose next sibling table is a
// "Medals by summer sport" table, once each. For legacy markup that is the
// heading around the headline span; for current markup it is the
// div.mw-heading wrapper.
func summerSectionAnchors(doc *goquery.Document) []*goquery.Selection {
	seen := make(map[*html.Node]bool)
	var anchors []*goquery.Selection

	doc.Find("span.mw-headline, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		if !summerHeadingPattern.MatchString(s.Text()) {
			return
		}
		anchor := s
		if s.Is("span") {
			anchor = s.Parent()
		}
		if parent := anchor.Parent(); parent.Is("div.mw-heading") {
			anchor = parent
		}
		node := anchor.Get(0)
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		anchors = append(anchors, anchor)
	})
	return anchors
}

func findSportRow(table *goquery.Selection, sportPattern *regexp.Regexp) (types.MedalCount, bool) {
	var medals types.MedalCount
	found := false

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true
		}
		header := row.Find("th").First()
		if header.Length() == 0 {
			return true
		}
		link := header.Find("a").First()
		if link.Length() == 0 || !sportPattern.MatchString(link.Text()) {
			return true
		}

		cells := header.NextAllFiltered("td")
		medals = types.MedalCount{
			Gold:   digitCount(cells.Eq(0).Text()),
			Silver: digitCount(cells.Eq(1).Text()),
			Bronze: digitCount(cells.Eq(2).Text()),
		}
		found = true
		return false
	})
	return medals, found
}

// digitCount parses s if it is made only of digits after trimming; anything
// else counts as 0.
func digitCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
