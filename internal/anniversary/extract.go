// Package anniversary builds per-month tables from the Wikipedia
// "Selected anniversaries" pages.
package anniversary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// anniversaryPattern matches the serialized opening of a paragraph that
// starts with a link to a day of month, as in
// <p><b><a href="/wiki/April_1" title="April 1">.
func anniversaryPattern(month string) *regexp.Regexp {
	return regexp.MustCompile(`^<p>(<b>)?<a\s+href="/wiki/` + regexp.QuoteMeta(month) + `_\d{1,2}"`)
}

// Extract returns the plain text of every anniversary paragraph for month,
// in document order.
func Extract(html, month string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &types.ParseError{Selector: "p", Err: err}
	}
	return ExtractDocument(doc, month)
}

// ExtractDocument is Extract over an already parsed page.
func ExtractDocument(doc *goquery.Document, month string) ([]string, error) {
	pattern := anniversaryPattern(month)

	var passages []string
	var renderErr error
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		outer, err := goquery.OuterHtml(p)
		if err != nil {
			renderErr = err
			return false
		}
		if pattern.MatchString(outer) {
			passages = append(passages, p.Text())
		}
		return true
	})
	if renderErr != nil {
		return nil, &types.ParseError{Selector: "p", Err: fmt.Errorf("render paragraph: %w", renderErr)}
	}
	return passages, nil
}
