package storage

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/WikiStats/internal/config"
	"github.com/IshaanNene/WikiStats/internal/types"
)

// Storage is the interface for all record sinks.
type Storage interface {
	// Store persists a batch of records.
	Store(recs []*types.Record) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New builds the backend named by cfg.Type. A comma-separated type list
// ("json,csv") fans out through a MultiStorage. It returns (nil, nil) for
// "none" so callers can skip record emission entirely.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	names := config.StorageTypes(cfg.Type)
	if len(names) <= 1 {
		name := ""
		if len(names) == 1 {
			name = names[0]
		}
		return newBackend(name, cfg, logger)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate storage type: %s", name)
		}
		seen[name] = true
	}

	backends := make([]Storage, 0, len(names))
	for _, name := range names {
		b, err := newBackend(name, cfg, logger)
		if err != nil {
			for _, opened := range backends {
				_ = opened.Close()
			}
			return nil, err
		}
		if b != nil {
			backends = append(backends, b)
		}
	}
	return NewMultiStorage(backends, logger), nil
}

func newBackend(name string, cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "json", "jsonl", "csv":
		return NewFileStorage(name, cfg.OutputPath, logger)
	case "mongodb":
		return NewMongoStorage(cfg.MongoURI, cfg.Database, cfg.Collection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", name)
	}
}
