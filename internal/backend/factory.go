package backend

import (
	"context"
	"fmt"
	"log/slog"

	"outlay/internal/store/memory"
	mongostore "outlay/internal/store/mongo"
	sqlitestore "outlay/internal/store/sqlite"
)

// Factory builds stores from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the configured store and its cleanup function.
func (f *Factory) CreateStore(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case MongoStore:
		s, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("initialize mongo store: %w", err)
		}
		f.logger.Info("Initialized mongo store",
			"database", cfg.MongoDatabase,
			"collection", cfg.MongoCollection)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case SQLiteStore:
		s, err := sqlitestore.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite store", "db_path", cfg.SQLiteDBPath)
		return &Result{
			Store:   s,
			Cleanup: func(context.Context) error { return s.Close() },
		}, nil

	case MemoryStore:
		f.logger.Info("Initialized memory store")
		return &Result{Store: memory.New(), Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported store kind: %s", cfg.Kind)
	}
}
