package trust

import (
	"fmt"

	"github.com/yourusername/betting-trust/internal/stats"
)

// Relationship component names
const (
	FactorSampleSize   = "sample_size"
	FactorSignificance = "significance"
	FactorRecency      = "recency"
	FactorStability    = "stability"
	FactorCalibration  = "calibration"
)

const (
	relationshipHalfLifeDays = 90.0
	staleDataDays            = 180
	wideIntervalThreshold    = 0.3
	maxIntervalPenalty       = 0.2
)

var (
	sampleThresholds = []float64{500, 200, 100, 50, 20}
	sampleScores     = []float64{0.95, 0.85, 0.70, 0.50, 0.30}

	pValueThresholds = []float64{0.01, 0.05, 0.10}
	pValueScores     = []float64{1.0, 0.8, 0.5}
)

// RelationshipInput summarises the evidence behind an estimated relationship
type RelationshipInput struct {
	SampleSize         int
	Correlation        *float64
	PValue             *float64
	StabilityScore     *float64
	DaysSinceData      int
	CorrelationCIWidth *float64
}

// RelationshipTrust scores how far an estimated relationship between two
// outcomes should be relied upon.
func RelationshipTrust(in RelationshipInput) Assessment {
	var warnings []string

	sampleScore := stepScore(float64(in.SampleSize), sampleThresholds, sampleScores, atLeast, 0.1)
	if in.SampleSize < 20 {
		warnings = append(warnings, fmt.Sprintf("Very small sample size (%d)", in.SampleSize))
	}

	sigScore := 0.5
	if in.PValue != nil {
		p := *in.PValue
		sigScore = stepScore(p, pValueThresholds, pValueScores, below, 0.2)
		switch {
		case p >= 0.10:
			warnings = append(warnings, fmt.Sprintf("Not statistically significant (p=%.3f)", p))
		case p >= 0.05:
			warnings = append(warnings, fmt.Sprintf("Marginally significant (p=%.3f)", p))
		}
	}

	recency := stats.HalfLifeDecay(float64(in.DaysSinceData), relationshipHalfLifeDays)
	if in.DaysSinceData > staleDataDays {
		warnings = append(warnings, fmt.Sprintf("Data is %d days old", in.DaysSinceData))
	}

	stability := 0.5
	if in.StabilityScore != nil {
		stability = *in.StabilityScore
		if stability < 0.5 {
			warnings = append(warnings, "Relationship is unstable over time")
		}
	}

	score, components, weights := Composite(map[string]Factor{
		FactorSampleSize:   {Value: sampleScore, Weight: 0.40},
		FactorSignificance: {Value: sigScore, Weight: 0.25},
		FactorRecency:      {Value: recency, Weight: 0.20},
		FactorStability:    {Value: stability, Weight: 0.15},
	})

	if in.CorrelationCIWidth != nil && *in.CorrelationCIWidth > wideIntervalThreshold {
		width := *in.CorrelationCIWidth
		score -= min(maxIntervalPenalty, width-wideIntervalThreshold)
		warnings = append(warnings, fmt.Sprintf("Wide confidence interval (%.2f)", width))
	}
	score = stats.Clip(score, 0, 1)

	return Assessment{
		Score:          score,
		Components:     components,
		Weights:        weights,
		Recommendation: relationshipRecommendation(score),
		Warnings:       warnings,
	}
}

func relationshipRecommendation(score float64) string {
	switch {
	case score >= 0.8:
		return "HIGH TRUST: Use full conditional probability adjustment"
	case score >= 0.6:
		return "MODERATE TRUST: Blend with marginal probability (70/30)"
	case score >= 0.4:
		return "LOW TRUST: Mostly use marginal probability (30/70 blend)"
	default:
		return "VERY LOW TRUST: Treat as independent, ignore relationship"
	}
}
