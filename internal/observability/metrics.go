package observability

import (
	"log/slog"
	"sync/atomic"
)

// Metrics tracks operational counters for a report run.
type Metrics struct {
	// Request metrics
	RequestsTotal  atomic.Int64
	RequestsFailed atomic.Int64

	// Response metrics
	Responses2xx atomic.Int64
	Responses3xx atomic.Int64
	Responses4xx atomic.Int64
	Responses5xx atomic.Int64

	BytesDownloaded atomic.Int64

	// Cache metrics
	CacheHits   atomic.Int64
	CacheMisses atomic.Int64

	// Output metrics
	ChartsRendered atomic.Int64
	TablesWritten  atomic.Int64
	RecordsStored  atomic.Int64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordStatus counts a response by status class.
func (m *Metrics) RecordStatus(code int) {
	switch {
	case code >= 500:
		m.Responses5xx.Add(1)
	case code >= 400:
		m.Responses4xx.Add(1)
	case code >= 300:
		m.Responses3xx.Add(1)
	case code >= 200:
		m.Responses2xx.Add(1)
	}
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":   m.RequestsTotal.Load(),
		"requests_failed":  m.RequestsFailed.Load(),
		"responses_2xx":    m.Responses2xx.Load(),
		"responses_3xx":    m.Responses3xx.Load(),
		"responses_4xx":    m.Responses4xx.Load(),
		"responses_5xx":    m.Responses5xx.Load(),
		"bytes_downloaded": m.BytesDownloaded.Load(),
		"cache_hits":       m.CacheHits.Load(),
		"cache_misses":     m.CacheMisses.Load(),
		"charts_rendered":  m.ChartsRendered.Load(),
		"tables_written":   m.TablesWritten.Load(),
		"records_stored":   m.RecordsStored.Load(),
	}
}

// LogSummary writes the headline counters at info level.
func (m *Metrics) LogSummary(logger *slog.Logger) {
	logger.Info("run summary",
		"requests", m.RequestsTotal.Load(),
		"failed", m.RequestsFailed.Load(),
		"cache_hits", m.CacheHits.Load(),
		"bytes", m.BytesDownloaded.Load(),
		"charts", m.ChartsRendered.Load(),
		"tables", m.TablesWritten.Load(),
		"records", m.RecordsStored.Load(),
	)
}
