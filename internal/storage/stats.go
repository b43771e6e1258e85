package storage

import (
	"math"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

// finishStats derives the remaining fields from the raw counts. Totals
// of zero stay zero instead of dividing.
func finishStats(s *internal.SnoreStats) {
	s.NoSnoringCount = s.TotalDetections - s.SnoringDetectedCount
	if s.TotalDetections > 0 {
		s.SnoringPercentage = round1(float64(s.SnoringDetectedCount) / float64(s.TotalDetections) * 100)
	}
	s.AverageConfidence = round3(s.AverageConfidence)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
