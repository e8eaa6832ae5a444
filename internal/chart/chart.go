// Package chart renders grouped bar charts to PNG (gonum plot) or
// interactive HTML (go-echarts).
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// Medal colors used by the per-sport charts.
const (
	GoldColor   = "#3e4574"
	SilverColor = "#00a9ff"
	BronzeColor = "#581120"
)

// Series is one group member plotted once per category.
type Series struct {
	Name   string
	Values []float64
	// Color is a "#rrggbb" hex string. Empty picks a palette color.
	Color string
}

// BarChart is a grouped bar chart: one group per category, one bar per
// series within each group.
type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
}

// Validate checks that every series has one value per category.
func (c *BarChart) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("chart %q has no categories", c.Title)
	}
	if len(c.Series) == 0 {
		return fmt.Errorf("chart %q has no series", c.Title)
	}
	for _, s := range c.Series {
		if len(s.Values) != len(c.Categories) {
			return fmt.Errorf("chart %q series %q has %d values for %d categories",
				c.Title, s.Name, len(s.Values), len(c.Categories))
		}
	}
	return nil
}

// Renderer writes a chart to a file.
type Renderer interface {
	// Render writes c to path.
	Render(c *BarChart, path string) error

	// Ext returns the file extension the renderer produces, with the dot.
	Ext() string
}

// Size is a chart size in inches.
type Size struct {
	Width  float64
	Height float64
}

// NewRenderers returns the renderers for format: "png", "html" or "both".
func NewRenderers(format string, size Size) ([]Renderer, error) {
	switch format {
	case "png":
		return []Renderer{NewPNGRenderer(size)}, nil
	case "html":
		return []Renderer{NewHTMLRenderer(size)}, nil
	case "both":
		return []Renderer{NewPNGRenderer(size), NewHTMLRenderer(size)}, nil
	default:
		return nil, fmt.Errorf("unknown chart format %q", format)
	}
}

// WriteAll renders c with every renderer to dir/base+ext and returns the
// paths written.
func WriteAll(renderers []Renderer, c *BarChart, dir, base string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, &types.RenderError{Artifact: base, Err: err}
	}
	paths := make([]string, 0, len(renderers))
	for _, r := range renderers {
		path := filepath.Join(dir, base+r.Ext())
		if err := r.Render(c, path); err != nil {
			return paths, &types.RenderError{Artifact: path, Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parseHexColor parses "#rrggbb".
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
