package service

import (
	"context"
	"errors"
	"time"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

var ErrInvalidPillowLevel = errors.New("invalid level, must be 0, 1, 2, or 3")

type PumpTriggerRequest struct {
	Duration float64 `json:"duration" validate:"required,gt=0,lte=120"`
}

type PumpTriggerResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Response  map[string]any `json:"response,omitempty"`
}

func ValidatePumpTriggerRequest(req *PumpTriggerRequest) error {
	return validate.Struct(req)
}

// TriggerPump runs the pump manually. Unlike the detection flow, a
// device failure here surfaces to the caller, after the attempt has
// been recorded.
func TriggerPump(
	ctx context.Context,
	pumpRepo storage.PumpLogRepository,
	dev *device.Client,
	logger internal.Logger,
	user *internal.User,
	durationSeconds float64,
) (*PumpTriggerResult, error) {
	resp, err := dev.PumpTrigger(ctx, durationSeconds)
	recordPumpAttempt(ctx, pumpRepo, logger, user.ID, err)
	if err != nil {
		logger.Errorf("pump: failed to trigger for user %s: %v", user.Email, err)
		return nil, err
	}
	logger.Infof("pump: manually triggered by user %s for %.1fs", user.Email, durationSeconds)
	return &PumpTriggerResult{
		Status:    "success",
		Message:   "Pump triggered successfully",
		Timestamp: time.Now().UTC(),
		Response:  resp,
	}, nil
}

// PillowLevel describes one supported pillow position and the
// actuation the device performs to reach it.
type PillowLevel struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Pump        int    `json:"pump"`
	Duration    int    `json:"duration"`
}

// PillowLevels lists the supported positions. Durations mirror the
// device firmware's per-level actuation times.
func PillowLevels() []PillowLevel {
	return []PillowLevel{
		{Level: 0, Name: "Flat", Description: "Deflate completely", Pump: 2, Duration: 30},
		{Level: 1, Name: "Low", Description: "Low elevation", Pump: 1, Duration: 25},
		{Level: 2, Name: "Medium", Description: "Medium elevation", Pump: 1, Duration: 40},
		{Level: 3, Name: "High", Description: "High elevation", Pump: 1, Duration: 60},
	}
}

// SetPillowLevel validates the level before any network call, then
// forwards it to the device.
func SetPillowLevel(ctx context.Context, dev *device.Client, logger internal.Logger, user *internal.User, level int) (map[string]any, error) {
	if level < 0 || level > 3 {
		return nil, ErrInvalidPillowLevel
	}
	resp, err := dev.SetPillowLevel(ctx, level)
	if err != nil {
		logger.Errorf("pillow: failed to set level %d for user %s: %v", level, user.Email, err)
		return nil, err
	}
	logger.Infof("pillow: level set to %d by user %s", level, user.Email)
	return resp, nil
}
