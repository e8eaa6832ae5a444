package pipeline

import (
	"fmt"

	"github.com/IshaanNene/WikiStats/internal/observability"
	"github.com/IshaanNene/WikiStats/internal/storage"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// Sink feeds collector records through a pipeline into a storage backend.
// A nil *Sink discards everything, so collectors can emit unconditionally.
type Sink struct {
	pipeline *Pipeline
	store    storage.Storage
	metrics  *observability.Metrics
}

// NewSink creates a Sink. metrics may be nil.
func NewSink(p *Pipeline, store storage.Storage, metrics *observability.Metrics) *Sink {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Sink{pipeline: p, store: store, metrics: metrics}
}

// Emit processes recs and stores the survivors.
func (s *Sink) Emit(recs ...*types.Record) error {
	if s == nil || len(recs) == 0 {
		return nil
	}
	kept, err := s.pipeline.ProcessAll(recs)
	if err != nil {
		return err
	}
	if len(kept) == 0 {
		return nil
	}
	if err := s.store.Store(kept); err != nil {
		return &types.StorageError{Backend: s.store.Name(), Err: err}
	}
	s.metrics.RecordsStored.Add(int64(len(kept)))
	return nil
}

// Close flushes and closes the storage backend.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close %s storage: %w", s.store.Name(), err)
	}
	return nil
}
