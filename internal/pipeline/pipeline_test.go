package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IshaanNene/WikiStats/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPipelineTrim(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})

	rec := types.NewRecord(types.KindAnniversary, "https://example.com")
	rec.Set("date", "  April 1 ")
	rec.Set("event", "Event\n  A   happened")
	rec.Set("count", 3)

	result, err := p.Process(rec)
	if err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	if got := result.GetString("date"); got != "April 1" {
		t.Errorf("date = %q", got)
	}
	if got := result.GetString("event"); got != "Event A happened" {
		t.Errorf("event = %q", got)
	}
	if v, _ := result.Get("count"); v != 3 {
		t.Errorf("non-string field changed: %v", v)
	}
}

func TestTrimLeavesInputUntouched(t *testing.T) {
	rec := types.NewRecord(types.KindAnniversary, "")
	rec.Set("event", "  padded  ")

	out, err := (&TrimMiddleware{}).Process(rec)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if out.GetString("event") != "padded" {
		t.Errorf("trimmed = %q", out.GetString("event"))
	}
	if rec.GetString("event") != "  padded  " {
		t.Errorf("input mutated to %q", rec.GetString("event"))
	}
}

func TestKeyFieldMiddleware(t *testing.T) {
	m := &KeyFieldMiddleware{Keys: map[string][]string{types.KindSportMedals: {"country"}}}

	rec := types.NewRecord(types.KindSportMedals, "")
	rec.Set("country", "Norway")
	if result, err := m.Process(rec); err != nil || result == nil {
		t.Error("record with required field should pass")
	}

	empty := types.NewRecord(types.KindSportMedals, "")
	empty.Set("country", "")
	if result, _ := m.Process(empty); result != nil {
		t.Error("record with empty required field should be dropped")
	}

	missing := types.NewRecord(types.KindSportMedals, "")
	if result, _ := m.Process(missing); result != nil {
		t.Error("record missing required field should be dropped")
	}
}

func TestDefaultPipelineKeyFields(t *testing.T) {
	p := NewDefault(testLogger)

	tests := []struct {
		name   string
		kind   string
		fields map[string]any
		keep   bool
	}{
		{"anniversary complete", types.KindAnniversary, map[string]any{"date": "April 1", "event": "X"}, true},
		{"anniversary blank event", types.KindAnniversary, map[string]any{"date": "April 1", "event": "   "}, false},
		{"sport without sport", types.KindSportMedals, map[string]any{"country": "Norway"}, false},
		{"overview", types.KindCountryOverview, map[string]any{"country": "Denmark", "summer": 0}, true},
		{"unknown kind passes", "other", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.NewRecord(tt.kind, "")
			for k, v := range tt.fields {
				rec.Set(k, v)
			}
			result, err := p.Process(rec)
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if (result != nil) != tt.keep {
				t.Errorf("kept = %v, want %v", result != nil, tt.keep)
			}
		})
	}
}

func TestDedupMiddleware(t *testing.T) {
	m := NewDedupMiddleware(map[string][]string{types.KindSportMedals: {"country", "sport"}})

	first := types.NewRecord(types.KindSportMedals, "")
	first.Set("country", "Norway")
	first.Set("sport", "Sailing")
	dup := first.Clone()
	other := first.Clone()
	other.Set("sport", "Athletics")

	if r, _ := m.Process(first); r == nil {
		t.Error("first record should pass")
	}
	if r, _ := m.Process(dup); r != nil {
		t.Error("duplicate should be dropped")
	}
	if r, _ := m.Process(other); r == nil {
		t.Error("distinct record should pass")
	}
}

func TestDefaultKeepsRepeatedAnniversaries(t *testing.T) {
	p := NewDefault(testLogger)

	var recs []*types.Record
	for range 2 {
		ann := types.NewRecord(types.KindAnniversary, "")
		ann.Set("date", "April 1")
		ann.Set("event", "Same event")
		recs = append(recs, ann)

		sport := types.NewRecord(types.KindSportMedals, "")
		sport.Set("country", "Norway")
		sport.Set("sport", "Sailing")
		recs = append(recs, sport)
	}

	out, err := p.ProcessAll(recs)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	counts := map[string]int{}
	for _, r := range out {
		counts[r.Kind]++
	}
	if counts[types.KindAnniversary] != 2 {
		t.Errorf("anniversary records = %d, want 2", counts[types.KindAnniversary])
	}
	if counts[types.KindSportMedals] != 1 {
		t.Errorf("sport records = %d, want 1", counts[types.KindSportMedals])
	}
}

type failingMiddleware struct{}

func (failingMiddleware) Name() string { return "fail" }
func (failingMiddleware) Process(*types.Record) (*types.Record, error) {
	return nil, errors.New("boom")
}

func TestPipelineErrorCarriesStage(t *testing.T) {
	p := New(testLogger)
	p.Use(failingMiddleware{})

	_, err := p.Process(types.NewRecord("x", ""))
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != "fail" {
		t.Errorf("stage = %q", pe.Stage)
	}
}

type memStore struct {
	recs   []*types.Record
	closed bool
}

func (m *memStore) Name() string { return "mem" }
func (m *memStore) Store(recs []*types.Record) error { m.recs = append(m.recs, recs...); return nil }
func (m *memStore) Close() error { m.closed = true; return nil }

func TestSinkEmit(t *testing.T) {
	store := &memStore{}
	sink := NewSink(NewDefault(testLogger), store, nil)

	good := types.NewRecord(types.KindAnniversary, "")
	good.Set("date", "May 2")
	good.Set("event", "Y")
	bad := types.NewRecord(types.KindAnniversary, "")
	bad.Set("date", "May 2")

	if err := sink.Emit(good, bad); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.recs) != 1 {
		t.Fatalf("stored %d records, want 1", len(store.recs))
	}
	if err := sink.Close(); err != nil || !store.closed {
		t.Errorf("close: %v closed=%v", err, store.closed)
	}
}

func TestNilSinkDiscards(t *testing.T) {
	var sink *Sink
	if err := sink.Emit(types.NewRecord("x", "")); err != nil {
		t.Errorf("nil sink emit: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("nil sink close: %v", err)
	}
}
