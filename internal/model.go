package internal

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type SnoreLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
	SnoreDetected bool      `gorm:"not null" json:"snore_detected"`
	Confidence    float64   `gorm:"not null" json:"confidence"`
	AudioDuration *float64  `json:"audio_duration,omitempty"`
}

// PumpStatus is the outcome of a single pump activation attempt.
// "failed" means the device answered with a failure reply; "error"
// means the device could not be reached at all.
type PumpStatus string

const (
	PumpStatusSuccess PumpStatus = "success"
	PumpStatusFailed  PumpStatus = "failed"
	PumpStatusError   PumpStatus = "error"
)

type PumpLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp    time.Time  `gorm:"index" json:"timestamp"`
	ActivatedBy  uuid.UUID  `gorm:"type:uuid;not null;index" json:"activated_by"`
	Status       PumpStatus `gorm:"not null" json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// SnoreStats aggregates a user's detection history. Zero logged
// detections yields all-zero values, never a division error.
type SnoreStats struct {
	TotalDetections      int64   `json:"total_detections"`
	SnoringDetectedCount int64   `json:"snoring_detected_count"`
	NoSnoringCount       int64   `json:"no_snoring_count"`
	AverageConfidence    float64 `json:"average_confidence"`
	SnoringPercentage    float64 `json:"snoring_percentage"`
}
