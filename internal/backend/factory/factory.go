// Package factory builds backends from configuration. It lives below the
// backend package so concrete stores can share the backend wire rows without
// an import cycle.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"duwit/internal/backend"
	"duwit/internal/memory"
	"duwit/internal/postgres"
	"duwit/internal/storage"
)

// DefaultFactory implements the backend.Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// New creates a new backend factory
func New(logger *slog.Logger) backend.Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements backend.Factory.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config backend.Config) (*backend.Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case backend.SQLiteBackend:
		return f.createSQLiteBackend(config)
	case backend.PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case backend.MemoryBackend:
		return f.createMemoryBackend()
	case backend.DisabledBackend:
		return f.createDisabledBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config backend.Config) (*backend.Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &backend.Result{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config backend.Config) (*backend.Result, error) {
	repo, err := postgres.NewRepository(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")

	return &backend.Result{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*backend.Result, error) {
	f.logger.Info("Initialized memory backend")

	return &backend.Result{
		Backend: memory.New(),
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createDisabledBackend() (*backend.Result, error) {
	f.logger.Warn("Persistence disabled, mutations will not be stored")

	return &backend.Result{
		Backend: backend.NewDisabled(),
		Cleanup: nil,
	}, nil
}
