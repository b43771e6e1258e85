package detect

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

func TestMockDetector_ConfidenceRangeAndVerdict(t *testing.T) {
	m := NewMockDetector(1, internal.NopLogger{})
	for i := 0; i < 1000; i++ {
		detected, confidence := m.Predict(nil)
		assert.GreaterOrEqual(t, confidence, 0.3)
		assert.LessOrEqual(t, confidence, 0.95)
		assert.Equal(t, confidence > 0.6, detected)
	}
}

func TestMockDetector_ConcurrentPredict(t *testing.T) {
	m := NewMockDetector(1, internal.NopLogger{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, confidence := m.Predict(nil)
				assert.GreaterOrEqual(t, confidence, 0.3)
				assert.LessOrEqual(t, confidence, 0.95)
			}
		}()
	}
	wg.Wait()
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func pcm(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestEnergyDetector_LoudAudioDetected(t *testing.T) {
	d, err := NewEnergyDetector(writeModel(t, `{"threshold":0.1,"saturation":0.5}`), internal.NopLogger{})
	assert.NoError(t, err)

	detected, confidence := d.Predict(pcm(20000, -20000, 18000, -18000))
	assert.True(t, detected)
	assert.Greater(t, confidence, 0.5)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestEnergyDetector_QuietAudioNotDetected(t *testing.T) {
	d, err := NewEnergyDetector(writeModel(t, `{"threshold":0.1,"saturation":0.5}`), internal.NopLogger{})
	assert.NoError(t, err)

	detected, confidence := d.Predict(pcm(100, -100, 50, -50))
	assert.False(t, detected)
	assert.GreaterOrEqual(t, confidence, 0.0)
}

func TestEnergyDetector_EmptyAudioSafeDefault(t *testing.T) {
	d, err := NewEnergyDetector(writeModel(t, `{"threshold":0.1,"saturation":0.5}`), internal.NopLogger{})
	assert.NoError(t, err)

	detected, confidence := d.Predict(nil)
	assert.False(t, detected)
	assert.Zero(t, confidence)

	detected, confidence = d.Predict([]byte{0x01}) // under one sample
	assert.False(t, detected)
	assert.Zero(t, confidence)
}

func TestSelect_FallsBackToMock(t *testing.T) {
	d := Select(filepath.Join(t.TempDir(), "missing.json"), 1, internal.NopLogger{})
	_, ok := d.(*MockDetector)
	assert.True(t, ok)

	d = Select(writeModel(t, `not json`), 1, internal.NopLogger{})
	_, ok = d.(*MockDetector)
	assert.True(t, ok)

	d = Select(writeModel(t, `{"threshold":0.1,"saturation":0.5}`), 1, internal.NopLogger{})
	_, ok = d.(*EnergyDetector)
	assert.True(t, ok)
}
