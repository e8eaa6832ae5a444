package fetcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// RobotsGate refuses requests that the target host's robots.txt disallows
// for the configured user agent. Hosts whose robots.txt cannot be fetched
// or parsed are treated as allow-all.
type RobotsGate struct {
	next      Fetcher
	userAgent string
	mu        sync.Mutex
	hosts     map[string]*robotstxt.RobotsData
	logger    *slog.Logger
}

// NewRobotsGate wraps next with robots.txt enforcement.
func NewRobotsGate(next Fetcher, userAgent string, logger *slog.Logger) *RobotsGate {
	return &RobotsGate{
		next:      next,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
		logger:    logger.With("component", "robots"),
	}
}

// Fetch checks robots.txt for the request host, then delegates.
func (g *RobotsGate) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	if !g.Allowed(ctx, req) {
		g.logger.Info("blocked by robots.txt", "domain", req.Domain(), "path", req.URL.Path)
		return nil, &types.FetchError{URL: req.URLString(), Err: types.ErrBlocked}
	}
	return g.next.Fetch(ctx, req)
}

// Allowed reports whether the request path may be fetched.
func (g *RobotsGate) Allowed(ctx context.Context, req *types.Request) bool {
	data := g.robotsFor(ctx, req)
	if data == nil {
		return true
	}
	path := req.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, g.userAgent)
}

// robotsFor returns the parsed robots.txt for the request host, fetching it
// once per host. A nil result means allow-all.
func (g *RobotsGate) robotsFor(ctx context.Context, req *types.Request) *robotstxt.RobotsData {
	host := req.URL.Scheme + "://" + req.URL.Host

	g.mu.Lock()
	data, ok := g.hosts[host]
	g.mu.Unlock()
	if ok {
		return data
	}

	data = g.fetchRobots(ctx, host)

	g.mu.Lock()
	g.hosts[host] = data
	g.mu.Unlock()
	return data
}

func (g *RobotsGate) fetchRobots(ctx context.Context, host string) *robotstxt.RobotsData {
	robotsReq, err := types.NewRequest(host + "/robots.txt")
	if err != nil {
		return nil
	}
	resp, err := g.next.Fetch(ctx, robotsReq)
	if err != nil {
		g.logger.Debug("robots.txt unavailable, allowing all", "host", host, "error", err)
		return nil
	}
	if !resp.IsSuccess() {
		return nil
	}
	data, err := robotstxt.FromBytes(resp.Body)
	if err != nil {
		g.logger.Debug("robots.txt unparsable, allowing all", "host", host, "error", err)
		return nil
	}
	return data
}

// Close releases the wrapped fetcher.
func (g *RobotsGate) Close() error {
	return g.next.Close()
}

// Type returns the wrapped fetcher's type.
func (g *RobotsGate) Type() string {
	return g.next.Type()
}
