package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// BrowserFetcher implements Fetcher with a headless Chromium driven by Rod.
// Pages are rendered one at a time.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	metrics *observability.Metrics
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewBrowserFetcher launches a headless browser and connects to it.
func NewBrowserFetcher(cfg *config.FetcherConfig, metrics *observability.Metrics, logger *slog.Logger) (*BrowserFetcher, error) {
	controlURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	bf := &BrowserFetcher{
		browser: browser,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "browser_fetcher"),
	}
	bf.logger.Info("browser fetcher ready", "stealth", cfg.Stealth)
	return bf, nil
}

// Fetch navigates to the request URL and returns the rendered HTML.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	bf.metrics.RequestsTotal.Add(1)
	start := time.Now()

	page, err := bf.newPage()
	if err != nil {
		bf.metrics.RequestsFailed.Add(1)
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}
	defer page.Close()

	page = page.Context(ctx)

	if bf.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: bf.cfg.UserAgent}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	timeout := bf.cfg.RequestTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	if err := page.Timeout(timeout).Navigate(req.URLString()); err != nil {
		bf.metrics.RequestsFailed.Add(1)
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		bf.logger.Warn("page load timeout, continuing", "url", req.URLString(), "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		bf.metrics.RequestsFailed.Add(1)
		return nil, &types.FetchError{URL: req.URLString(), Err: err, Retryable: true}
	}

	finalURL := req.URLString()
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bf.metrics.RecordStatus(200) // Rod does not expose the document status code
	bf.metrics.BytesDownloaded.Add(int64(len(html)))

	bf.logger.Debug("browser fetch complete",
		"url", req.URLString(),
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return types.NewBrowserResponse(req, 200, []byte(html), finalURL, duration), nil
}

// newPage opens a blank tab, with stealth patches when configured.
func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Stealth {
		page, err := stealth.Page(bf.browser)
		if err != nil {
			return nil, fmt.Errorf("stealth page: %w", err)
		}
		return page, nil
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// Close shuts down the browser.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
