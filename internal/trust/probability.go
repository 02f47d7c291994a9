package trust

import (
	"fmt"

	"github.com/yourusername/betting-trust/internal/stats"
)

const (
	modelHalfLifeDays = 180.0
	staleModelDays    = 90
	fullSampleSize    = 1000.0
	limitedSampleSize = 500
)

var (
	eceThresholds = []float64{0.02, 0.05, 0.10}
	eceScores     = []float64{1.0, 0.85, 0.60}
)

// ProbabilityTrust scores how far a model's raw probabilities can be used.
func ProbabilityTrust(calibrationECE float64, sampleSize, daysSinceTraining int) Assessment {
	var warnings []string

	calScore := stepScore(calibrationECE, eceThresholds, eceScores, below, 0.30)
	switch {
	case calibrationECE >= 0.10:
		warnings = append(warnings, fmt.Sprintf("Model is poorly calibrated (%.3f)", calibrationECE))
	case calibrationECE >= 0.05:
		warnings = append(warnings, fmt.Sprintf("Model has moderate calibration error (%.3f)", calibrationECE))
	}

	sampleScore := min(1.0, float64(sampleSize)/fullSampleSize)
	if sampleSize < limitedSampleSize {
		warnings = append(warnings, fmt.Sprintf("Limited training data (%d samples)", sampleSize))
	}

	recency := stats.HalfLifeDecay(float64(daysSinceTraining), modelHalfLifeDays)
	if daysSinceTraining > staleModelDays {
		warnings = append(warnings, fmt.Sprintf("Model trained %d days ago", daysSinceTraining))
	}

	score, components, weights := Composite(map[string]Factor{
		FactorCalibration: {Value: calScore, Weight: 0.60},
		FactorSampleSize:  {Value: sampleScore, Weight: 0.25},
		FactorRecency:     {Value: recency, Weight: 0.15},
	})

	return Assessment{
		Score:          score,
		Components:     components,
		Weights:        weights,
		Recommendation: probabilityRecommendation(score),
		Warnings:       warnings,
	}
}

func probabilityRecommendation(score float64) string {
	switch {
	case score >= 0.8:
		return "HIGH TRUST: Use probabilities directly for Kelly"
	case score >= 0.5:
		return "MODERATE TRUST: Apply calibration adjustment before Kelly"
	default:
		return "LOW TRUST: Do not use for real-money betting"
	}
}
