package storage

import (
	"context"
	"errors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

// GormStore backs the repositories with SQLite through GORM. It serves
// development setups and tests; production runs on PostgresStore.
type GormStore struct {
	db  *gorm.DB
	log internal.Logger
}

func NewSQLiteStore(path string, log internal.Logger) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Errorf("storage: failed to open sqlite at %s: %v", path, err)
		return nil, err
	}
	if err := db.AutoMigrate(&internal.User{}, &internal.SnoreLog{}, &internal.PumpLog{}); err != nil {
		log.Errorf("storage: failed to auto-migrate tables: %v", err)
		return nil, err
	}
	return &GormStore{db: db, log: log}, nil
}

// --- UserRepository ---

func (s *GormStore) CreateUser(ctx context.Context, user *internal.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.log.Errorf("storage: failed to create user: %v", err)
		return err
	}
	return nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	var user internal.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id uuid.UUID) (*internal.User, error) {
	var user internal.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- SnoreLogRepository ---

func (s *GormStore) SaveSnoreLog(ctx context.Context, log *internal.SnoreLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		s.log.Errorf("storage: failed to save snore log: %v", err)
		return err
	}
	return nil
}

func (s *GormStore) ListSnoreLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.SnoreLog, error) {
	var logs []internal.SnoreLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		s.log.Errorf("storage: failed to list snore logs: %v", err)
		return nil, err
	}
	return logs, nil
}

func (s *GormStore) SnoreStats(ctx context.Context, userID uuid.UUID) (internal.SnoreStats, error) {
	var stats internal.SnoreStats
	db := s.db.WithContext(ctx).Model(&internal.SnoreLog{})

	if err := db.Where("user_id = ?", userID).Count(&stats.TotalDetections).Error; err != nil {
		return internal.SnoreStats{}, err
	}
	if err := s.db.WithContext(ctx).Model(&internal.SnoreLog{}).
		Where("user_id = ? AND snore_detected = ?", userID, true).
		Count(&stats.SnoringDetectedCount).Error; err != nil {
		return internal.SnoreStats{}, err
	}
	if stats.SnoringDetectedCount > 0 {
		if err := s.db.WithContext(ctx).Model(&internal.SnoreLog{}).
			Select("AVG(confidence)").
			Where("user_id = ? AND snore_detected = ?", userID, true).
			Scan(&stats.AverageConfidence).Error; err != nil {
			return internal.SnoreStats{}, err
		}
	}
	finishStats(&stats)
	return stats, nil
}

// --- PumpLogRepository ---

func (s *GormStore) SavePumpLog(ctx context.Context, log *internal.PumpLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		s.log.Errorf("storage: failed to save pump log: %v", err)
		return err
	}
	return nil
}

func (s *GormStore) ListPumpLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.PumpLog, error) {
	var logs []internal.PumpLog
	err := s.db.WithContext(ctx).
		Where("activated_by = ?", userID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		s.log.Errorf("storage: failed to list pump logs: %v", err)
		return nil, err
	}
	return logs, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*GormStore)(nil)
var _ SnoreLogRepository = (*GormStore)(nil)
var _ PumpLogRepository = (*GormStore)(nil)
