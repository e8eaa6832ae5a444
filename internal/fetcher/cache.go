package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// CachingFetcher serves repeated fetches of the same page from memory and,
// when a directory is set, from disk. Only 2xx responses are cached.
type CachingFetcher struct {
	next    Fetcher
	dir     string
	mu      sync.RWMutex
	pages   map[string]*types.Response
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachingFetcher wraps next with a URL-keyed page cache. An empty dir
// keeps the cache in memory only.
func NewCachingFetcher(next Fetcher, dir string, metrics *observability.Metrics, logger *slog.Logger) (*CachingFetcher, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &CachingFetcher{
		next:    next,
		dir:     dir,
		pages:   make(map[string]*types.Response),
		metrics: metrics,
		logger:  logger.With("component", "page_cache"),
	}, nil
}

// Fetch returns the cached response for the request URL or fetches it.
func (c *CachingFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	key := CanonicalizeURL(req.URLString())

	c.mu.RLock()
	cached, ok := c.pages[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.CacheHits.Add(1)
		c.logger.Debug("memory cache hit", "url", key)
		return cached, nil
	}

	if resp, ok := c.readDisk(req, key); ok {
		c.metrics.CacheHits.Add(1)
		c.store(key, resp)
		return resp, nil
	}

	c.metrics.CacheMisses.Add(1)
	resp, err := c.next.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.IsSuccess() {
		c.store(key, resp)
		c.writeDisk(key, resp)
	}
	return resp, nil
}

// Len returns the number of pages held in memory.
func (c *CachingFetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Close releases the wrapped fetcher.
func (c *CachingFetcher) Close() error {
	return c.next.Close()
}

// Type returns the wrapped fetcher's type.
func (c *CachingFetcher) Type() string {
	return c.next.Type()
}

func (c *CachingFetcher) store(key string, resp *types.Response) {
	c.mu.Lock()
	c.pages[key] = resp
	c.mu.Unlock()
}

func (c *CachingFetcher) pagePath(key string) string {
	return filepath.Join(c.dir, hashURL(key)+".html")
}

func (c *CachingFetcher) readDisk(req *types.Request, key string) (*types.Response, bool) {
	if c.dir == "" {
		return nil, false
	}
	path := c.pagePath(key)
	body, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("read cached page", "path", path, "error", err)
		}
		return nil, false
	}
	c.logger.Debug("disk cache hit", "url", key, "path", path)
	resp := types.NewBrowserResponse(req, 200, body, req.URLString(), 0)
	resp.FromCache = true
	return resp, true
}

func (c *CachingFetcher) writeDisk(key string, resp *types.Response) {
	if c.dir == "" {
		return
	}
	path := c.pagePath(key)
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		c.logger.Warn("write cached page", "path", path, "error", err)
	}
}

// CanonicalizeURL normalizes a URL for use as a cache key:
// lowercases scheme and host, removes the fragment and default ports,
// and sorts query parameters.
func CanonicalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if port := u.Port(); (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = u.Hostname()
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, v := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// hashURL creates a compact file-system-safe hash of a URL string.
func hashURL(canonicalURL string) string {
	h := sha256.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(h[:16])
}

