// Package linkfilter extracts hyperlinks and image sources from raw HTML
// with pattern scans rather than a DOM parse, and narrows links to
// Wikipedia article pages.
package linkfilter

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultBaseURL is used to absolutize links when no base is given.
const DefaultBaseURL = "https://en.wikipedia.org"

var (
	hrefPattern    = regexp.MustCompile(`(?i)href="([^"]+)"`)
	articlePattern = regexp.MustCompile(`(?i)^https?://[a-z]{2,3}\.wikipedia\.org/wiki/[^:#]*$`)
	imgTagPattern  = regexp.MustCompile(`(?i)<img[^>]+>`)
	srcPattern     = regexp.MustCompile(`(?i)src="([^"]+)"`)
)

// Set is an unordered collection of unique strings.
type Set map[string]struct{}

// Add inserts s.
func (s Set) Add(v string) { s[v] = struct{}{} }

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ExtractLinks returns every href target in html in absolute form.
//
// Protocol-relative targets ("//host/x") take baseURL's scheme, absolute
// http(s) targets are kept, root-relative targets ("/x") are resolved
// against baseURL, and anything else is dropped. Fragments are removed.
func ExtractLinks(html, baseURL string) (Set, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	scheme, _, _ := strings.Cut(baseURL, "://")

	links := make(Set)
	for _, m := range hrefPattern.FindAllStringSubmatch(html, -1) {
		target := m[1]
		var abs string
		switch {
		case strings.HasPrefix(target, "//"):
			abs = scheme + ":" + target
		case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
			abs = target
		case strings.HasPrefix(target, "/"):
			ref, err := url.Parse(target)
			if err != nil {
				continue
			}
			abs = base.ResolveReference(ref).String()
		default:
			continue
		}
		abs, _, _ = strings.Cut(abs, "#")
		links.Add(abs)
	}
	return links, nil
}

// IsArticle reports whether rawURL is a Wikipedia article page on a
// language subdomain, excluding namespace pages such as Talk: or Special:.
func IsArticle(rawURL string) bool {
	return articlePattern.MatchString(rawURL)
}

// ExtractArticleLinks returns the subset of ExtractLinks that are article
// pages.
func ExtractArticleLinks(html, baseURL string) (Set, error) {
	links, err := ExtractLinks(html, baseURL)
	if err != nil {
		return nil, err
	}
	articles := make(Set)
	for link := range links {
		if IsArticle(link) {
			articles.Add(link)
		}
	}
	return articles, nil
}

// ExtractImageSources returns the src value of every <img> tag.
// src attributes on other tags are ignored.
func ExtractImageSources(html string) Set {
	sources := make(Set)
	for _, tag := range imgTagPattern.FindAllString(html, -1) {
		if m := srcPattern.FindStringSubmatch(tag); m != nil {
			sources.Add(m[1])
		}
	}
	return sources
}

// WriteLines writes the set to path, one member per line in sorted order,
// creating parent directories as needed.
func WriteLines(path string, set Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range set.Sorted() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
