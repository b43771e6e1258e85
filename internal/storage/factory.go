package storage

import (
	"context"
	"fmt"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/config"
)

// Repositories bundles the three stores a running server needs; both
// backends implement all of them on a single handle.
type Repositories struct {
	Users     UserRepository
	SnoreLogs SnoreLogRepository
	PumpLogs  PumpLogRepository
}

func NewRepositories(ctx context.Context, cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.StorageBackend {
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{Users: store, SnoreLogs: store, PumpLogs: store}, nil
	case "sqlite":
		store, err := NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{Users: store, SnoreLogs: store, PumpLogs: store}, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}
}
