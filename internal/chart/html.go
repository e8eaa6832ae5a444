package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// pixelsPerInch converts the configured chart size for the browser canvas.
const pixelsPerInch = 100

// HTMLRenderer writes standalone interactive charts with go-echarts.
type HTMLRenderer struct {
	size Size
}

// NewHTMLRenderer creates an HTML renderer for charts of the given size.
func NewHTMLRenderer(size Size) *HTMLRenderer {
	return &HTMLRenderer{size: size}
}

func (r *HTMLRenderer) Ext() string { return ".html" }

func (r *HTMLRenderer) Render(c *BarChart, path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.Title,
			Width:     fmt.Sprintf("%dpx", int(r.size.Width*pixelsPerInch)),
			Height:    fmt.Sprintf("%dpx", int(r.size.Height*pixelsPerInch)),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: c.Title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: c.XLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: c.YLabel,
		}),
	)

	bar.SetXAxis(c.Categories)
	for _, s := range c.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		if s.Color != "" {
			bar.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		} else {
			bar.AddSeries(s.Name, data)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
