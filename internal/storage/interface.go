package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

// ErrNotFound is returned for lookups that match no row.
var ErrNotFound = errors.New("storage: not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*internal.User, error)
}

type SnoreLogRepository interface {
	SaveSnoreLog(ctx context.Context, log *internal.SnoreLog) error
	ListSnoreLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.SnoreLog, error)
	SnoreStats(ctx context.Context, userID uuid.UUID) (internal.SnoreStats, error)
}

type PumpLogRepository interface {
	SavePumpLog(ctx context.Context, log *internal.PumpLog) error
	ListPumpLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.PumpLog, error)
}
