package pipeline

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// Middleware processes a record and returns the (possibly modified) record.
// Return nil to drop the record from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a record. Return nil to drop it.
	Process(rec *types.Record) (*types.Record, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// NewDefault returns the pipeline every collector record passes through:
// whitespace trimming, a guard against records with no kind-specific key
// field, then one record per country and per (country, sport) in a run.
// Anniversary rows may repeat and are never deduplicated.
func NewDefault(logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(&TrimMiddleware{})
	p.Use(&KeyFieldMiddleware{Keys: map[string][]string{
		types.KindCountryOverview: {"country"},
		types.KindSportMedals:     {"country", "sport"},
		types.KindAnniversary:     {"date", "event"},
	}})
	p.Use(NewDedupMiddleware(map[string][]string{
		types.KindCountryOverview: {"country"},
		types.KindSportMedals:     {"country", "sport"},
	}))
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order.
func (p *Pipeline) Process(rec *types.Record) (*types.Record, error) {
	current := rec

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:  mw.Name(),
				Record: current,
				Err:    err,
			}
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", mw.Name(), "kind", rec.Kind, "source", rec.Source)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll runs every record through the chain and returns the survivors
// in input order.
func (p *Pipeline) ProcessAll(recs []*types.Record) ([]*types.Record, error) {
	out := make([]*types.Record, 0, len(recs))
	for _, rec := range recs {
		result, err := p.Process(rec)
		if err != nil {
			return nil, err
		}
		if result != nil {
			out = append(out, result)
		}
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// KeyFieldMiddleware drops records missing any required field of their
// kind. Records of kinds not in Keys pass through.
type KeyFieldMiddleware struct {
	Keys map[string][]string
}

func (m *KeyFieldMiddleware) Name() string { return "key_fields" }

func (m *KeyFieldMiddleware) Process(rec *types.Record) (*types.Record, error) {
	for _, field := range m.Keys[rec.Kind] {
		if !present(rec, field) {
			return nil, nil
		}
	}
	return rec, nil
}

// present reports whether field is set to something other than nil or "".
func present(rec *types.Record, field string) bool {
	val, ok := rec.Get(field)
	if !ok || val == nil {
		return false
	}
	if s, isString := val.(string); isString && s == "" {
		return false
	}
	return true
}

// DedupMiddleware drops records whose key fields repeat an earlier record
// of the same kind. Records of kinds not in keys pass through.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
	keys map[string][]string
}

// NewDedupMiddleware dedups each listed kind on its field values.
func NewDedupMiddleware(keys map[string][]string) *DedupMiddleware {
	return &DedupMiddleware{
		seen: make(map[string]struct{}),
		keys: keys,
	}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(rec *types.Record) (*types.Record, error) {
	fields, ok := m.keys[rec.Kind]
	if !ok {
		return rec, nil
	}
	parts := []string{rec.Kind}
	for _, f := range fields {
		parts = append(parts, rec.GetString(f))
	}
	key := strings.Join(parts, "\x00")

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[key]; exists {
		return nil, nil
	}
	m.seen[key] = struct{}{}
	return rec, nil
}

// TrimMiddleware trims whitespace from all string fields and collapses
// internal runs of whitespace. It works on a copy; the input is untouched.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(rec *types.Record) (*types.Record, error) {
	out := rec.Clone()
	for _, key := range out.Keys() {
		if s := out.GetString(key); s != "" {
			out.Set(key, strings.Join(strings.Fields(s), " "))
		}
	}
	return out, nil
}
