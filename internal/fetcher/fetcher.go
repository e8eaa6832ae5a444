package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// Fetcher is the interface for all page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// Get fetches rawURL with f and fails on any non-2xx status or empty body.
func Get(ctx context.Context, f Fetcher, rawURL string) (*types.Response, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		// 4xx is final except 429; 5xx may clear up.
		retryable := resp.IsServerError()
		if resp.IsClientError() {
			retryable = resp.StatusCode == http.StatusTooManyRequests
		}
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
			Retryable:  retryable,
		}
	}
	if len(resp.Body) == 0 {
		return nil, &types.FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: types.ErrEmptyResponse}
	}
	return resp, nil
}

// New builds the fetcher stack described by cfg: the base fetcher, then the
// robots.txt gate, then the page cache.
func New(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (Fetcher, error) {
	var base Fetcher
	switch cfg.Fetcher.Type {
	case "http":
		f, err := NewHTTPFetcher(&cfg.Fetcher, metrics, logger)
		if err != nil {
			return nil, err
		}
		base = f
	case "browser":
		f, err := NewBrowserFetcher(&cfg.Fetcher, metrics, logger)
		if err != nil {
			return nil, err
		}
		base = f
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownFetcher, cfg.Fetcher.Type)
	}

	f := base
	if cfg.Fetcher.RespectRobotsTxt {
		f = NewRobotsGate(f, cfg.Fetcher.UserAgent, logger)
	}
	if cfg.Cache.Enabled {
		dir := ""
		if cfg.Cache.Persist {
			dir = cfg.Cache.CacheDir()
		}
		cached, err := NewCachingFetcher(f, dir, metrics, logger)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		f = cached
	}
	return f, nil
}
