// Package detect produces a snore verdict from raw audio bytes.
package detect

import (
	"math/rand"
	"sync"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

// Detector turns raw audio into a (detected, confidence) verdict.
// Implementations never fail: any internal problem yields (false, 0),
// because a broken detection must not block logging or the response.
type Detector interface {
	Predict(audio []byte) (detected bool, confidence float64)
}

// MockDetector stands in when no real model is usable. Confidence is
// drawn uniformly from [0.3, 0.95]; detected iff confidence > 0.6.
// Callers must not assume determinism from it.
type MockDetector struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger internal.Logger
}

func NewMockDetector(seed int64, logger internal.Logger) *MockDetector {
	return &MockDetector{rng: rand.New(rand.NewSource(seed)), logger: logger}
}

func (m *MockDetector) Predict(audio []byte) (bool, float64) {
	// One detector serves all requests; rand.Rand is not goroutine safe.
	m.mu.Lock()
	confidence := 0.3 + m.rng.Float64()*0.65
	m.mu.Unlock()
	detected := confidence > 0.6
	m.logger.Infof("detect: mock prediction snoring=%v confidence=%.2f", detected, confidence)
	return detected, confidence
}

// Select picks the detector once at startup: the threshold model when it
// loads cleanly, the mock otherwise. Never re-checked per call.
func Select(modelPath string, seed int64, logger internal.Logger) Detector {
	d, err := NewEnergyDetector(modelPath, logger)
	if err != nil {
		logger.Warnf("detect: model unavailable (%v), using mock predictions", err)
		return NewMockDetector(seed, logger)
	}
	logger.Infof("detect: threshold model loaded from %s", modelPath)
	return d
}
