package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/detect"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

// PumpTriggerConfidence is the minimum confidence at which a detection
// activates the pump sequence.
const PumpTriggerConfidence = 0.75

// DetectionResult is the outcome of one detection flow: the verdict,
// the log row it produced, and whether the pump was actually run.
type DetectionResult struct {
	SnoreDetected bool           `json:"snore_detected"`
	Confidence    float64        `json:"confidence"`
	Message       string         `json:"message"`
	PumpTriggered bool           `json:"pump_triggered"`
	PumpResponse  map[string]any `json:"pump_response,omitempty"`
	PumpError     string         `json:"pump_error,omitempty"`
}

// EstimateAudioDuration guesses seconds from raw byte length, assuming
// 16-bit mono 44.1kHz PCM. Wrong for compressed formats; display hint
// only.
func EstimateAudioDuration(audio []byte) float64 {
	return float64(len(audio)) / (44100 * 2)
}

// RunDetection is the audio-upload flow: classify, always write one
// SnoreLog, and run the pump sequence on a high-confidence hit. A
// failed actuation is recorded and reported but never fails the
// detection itself.
func RunDetection(
	ctx context.Context,
	snoreRepo storage.SnoreLogRepository,
	pumpRepo storage.PumpLogRepository,
	detector detect.Detector,
	dev *device.Client,
	logger internal.Logger,
	user *internal.User,
	audio []byte,
) (*DetectionResult, error) {
	duration := EstimateAudioDuration(audio)
	detected, confidence := detector.Predict(audio)

	log := &internal.SnoreLog{
		ID:            uuid.New(),
		UserID:        user.ID,
		Timestamp:     time.Now().UTC(),
		SnoreDetected: detected,
		Confidence:    confidence,
		AudioDuration: &duration,
	}
	if err := snoreRepo.SaveSnoreLog(ctx, log); err != nil {
		return nil, err
	}

	result := &DetectionResult{SnoreDetected: detected, Confidence: confidence}
	if detected && confidence >= PumpTriggerConfidence {
		resp, err := dev.PumpFullSequence(ctx)
		recordPumpAttempt(ctx, pumpRepo, logger, user.ID, err)
		if err != nil {
			logger.Errorf("snore: failed to trigger pump for user %s: %v", user.Email, err)
			result.PumpError = "pump activation failed"
		} else {
			result.PumpTriggered = true
			result.PumpResponse = resp
			logger.Infof("snore: pump triggered for user %s", user.Email)
		}
	}

	if detected {
		result.Message = fmt.Sprintf("Snoring detected with %.1f%% confidence", confidence*100)
		if result.PumpTriggered {
			result.Message += ". Pump activated."
		}
	} else {
		result.Message = "No snoring detected"
	}
	return result, nil
}

// SimulateDetection records a fixed high-confidence detection and
// attempts the pump sequence, for end-to-end testing without audio.
// Partial success (detection recorded, pump unreachable) is still a
// success with PumpTriggered=false.
func SimulateDetection(
	ctx context.Context,
	snoreRepo storage.SnoreLogRepository,
	pumpRepo storage.PumpLogRepository,
	dev *device.Client,
	logger internal.Logger,
	user *internal.User,
) (*DetectionResult, error) {
	duration := 5.0
	log := &internal.SnoreLog{
		ID:            uuid.New(),
		UserID:        user.ID,
		Timestamp:     time.Now().UTC(),
		SnoreDetected: true,
		Confidence:    0.85,
		AudioDuration: &duration,
	}
	if err := snoreRepo.SaveSnoreLog(ctx, log); err != nil {
		return nil, err
	}
	logger.Infof("snore: simulated detection recorded for user %s", user.Email)

	result := &DetectionResult{
		SnoreDetected: true,
		Confidence:    0.85,
		Message:       "Snoring simulation recorded",
	}
	resp, err := dev.PumpFullSequence(ctx)
	recordPumpAttempt(ctx, pumpRepo, logger, user.ID, err)
	if err != nil {
		logger.Warnf("snore: simulate could not trigger pump: %v", err)
		result.PumpError = "pump activation failed"
	} else {
		result.PumpTriggered = true
		result.PumpResponse = resp
	}
	return result, nil
}

// recordPumpAttempt writes the one PumpLog row every activation
// attempt gets, success and failure alike. A failed log write is
// logged but does not override the actuation outcome.
func recordPumpAttempt(ctx context.Context, pumpRepo storage.PumpLogRepository, logger internal.Logger, userID uuid.UUID, attemptErr error) {
	log := &internal.PumpLog{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		ActivatedBy: userID,
		Status:      internal.PumpStatusSuccess,
	}
	if attemptErr != nil {
		msg := attemptErr.Error()
		log.Status = pumpAttemptStatus(attemptErr)
		log.ErrorMessage = &msg
	}
	if err := pumpRepo.SavePumpLog(ctx, log); err != nil {
		logger.Errorf("snore: failed to record pump attempt: %v", err)
	}
}

// pumpAttemptStatus maps an actuation error to the log taxonomy:
// "failed" when the device answered with a failure status, "error"
// when it could not be reached at all.
func pumpAttemptStatus(attemptErr error) internal.PumpStatus {
	var devErr *device.Error
	if errors.As(attemptErr, &devErr) && devErr.StatusCode != 0 {
		return internal.PumpStatusFailed
	}
	return internal.PumpStatusError
}
