package detect

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

// thresholdModel is the calibration file for the energy classifier:
// mean absolute amplitude above Threshold counts as snoring, and the
// confidence scales with the distance from it up to Saturation.
type thresholdModel struct {
	Threshold  float64 `json:"threshold"`
	Saturation float64 `json:"saturation"`
}

// EnergyDetector is a cheap amplitude-based classifier over 16-bit
// little-endian PCM. It is a placeholder for a real spectral model and
// shares its contract: malformed input gives a safe (false, 0) verdict.
type EnergyDetector struct {
	model  thresholdModel
	logger internal.Logger
}

func NewEnergyDetector(modelPath string, logger internal.Logger) (*EnergyDetector, error) {
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}
	var m thresholdModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.Threshold <= 0 || m.Saturation <= m.Threshold {
		return nil, errors.New("invalid threshold model")
	}
	return &EnergyDetector{model: m, logger: logger}, nil
}

func (d *EnergyDetector) Predict(audio []byte) (bool, float64) {
	energy, ok := meanAbsAmplitude(audio)
	if !ok {
		d.logger.Warnf("detect: unusable audio payload (%d bytes), returning safe default", len(audio))
		return false, 0
	}

	confidence := (energy - d.model.Threshold) / (d.model.Saturation - d.model.Threshold)
	confidence = math.Max(0, math.Min(1, 0.5+confidence/2))
	detected := energy > d.model.Threshold
	d.logger.Infof("detect: energy prediction snoring=%v confidence=%.2f energy=%.4f", detected, confidence, energy)
	return detected, confidence
}

// meanAbsAmplitude averages |sample| over 16-bit samples, normalized to
// [0,1]. Reports ok=false when there is not a single full sample.
func meanAbsAmplitude(audio []byte) (float64, bool) {
	n := len(audio) / 2
	if n == 0 {
		return 0, false
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(audio[i*2 : i*2+2]))
		sum += math.Abs(float64(s))
	}
	return sum / float64(n) / 32768.0, true
}
