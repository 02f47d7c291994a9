package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCompositeBreakdown(t *testing.T) {
	score, components, weights := Composite(map[string]Factor{
		"a": {Value: 1.0, Weight: 0.5},
		"b": {Value: 0.5, Weight: 0.5},
	})

	assert.InDelta(t, 0.75, score, 1e-12)
	assert.Equal(t, map[string]float64{"a": 1.0, "b": 0.5}, components)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 0.5}, weights)
}

func TestRelationshipTrustStrongEvidence(t *testing.T) {
	a := RelationshipTrust(RelationshipInput{
		SampleSize:     600,
		PValue:         ptr(0.001),
		StabilityScore: ptr(0.9),
	})

	// 0.95*0.40 + 1.0*0.25 + 1.0*0.20 + 0.9*0.15
	assert.InDelta(t, 0.965, a.Score, 1e-9)
	assert.Equal(t, "HIGH TRUST: Use full conditional probability adjustment", a.Recommendation)
	assert.Empty(t, a.Warnings)
	assert.Len(t, a.Components, 4)
	assert.InDelta(t, 1.0, a.Weights[FactorSampleSize]+a.Weights[FactorSignificance]+a.Weights[FactorRecency]+a.Weights[FactorStability], 1e-12)
}

func TestRelationshipTrustWeakEvidence(t *testing.T) {
	a := RelationshipTrust(RelationshipInput{
		SampleSize:         10,
		PValue:             ptr(0.3),
		StabilityScore:     ptr(0.2),
		DaysSinceData:      360,
		CorrelationCIWidth: ptr(0.8),
	})

	// 0.1*0.40 + 0.2*0.25 + 0.0625*0.20 + 0.2*0.15 - 0.2
	assert.InDelta(t, 0.0, a.Score, 1e-9)
	assert.Equal(t, "VERY LOW TRUST: Treat as independent, ignore relationship", a.Recommendation)
	assert.Contains(t, a.Warnings, "Very small sample size (10)")
	assert.Contains(t, a.Warnings, "Not statistically significant (p=0.300)")
	assert.Contains(t, a.Warnings, "Data is 360 days old")
	assert.Contains(t, a.Warnings, "Relationship is unstable over time")
	assert.Contains(t, a.Warnings, "Wide confidence interval (0.80)")
}

func TestRelationshipTrustDefaults(t *testing.T) {
	a := RelationshipTrust(RelationshipInput{SampleSize: 100})

	// 0.70*0.40 + 0.5*0.25 + 1.0*0.20 + 0.5*0.15
	assert.InDelta(t, 0.68, a.Score, 1e-9)
	assert.Equal(t, 0.5, a.Components[FactorSignificance])
	assert.Equal(t, 0.5, a.Components[FactorStability])
	assert.Equal(t, "MODERATE TRUST: Blend with marginal probability (70/30)", a.Recommendation)
}

func TestRelationshipTrustPenaltyProportional(t *testing.T) {
	base := RelationshipTrust(RelationshipInput{SampleSize: 250, PValue: ptr(0.02)})
	wide := RelationshipTrust(RelationshipInput{SampleSize: 250, PValue: ptr(0.02), CorrelationCIWidth: ptr(0.4)})

	assert.InDelta(t, 0.1, base.Score-wide.Score, 1e-9)
}

func TestRelationshipTrustMarginal(t *testing.T) {
	a := RelationshipTrust(RelationshipInput{SampleSize: 60, PValue: ptr(0.07)})
	assert.Equal(t, 0.5, a.Components[FactorSignificance])
	assert.Contains(t, a.Warnings, "Marginally significant (p=0.070)")
}

func TestRelationshipTrustIsPure(t *testing.T) {
	in := RelationshipInput{
		SampleSize:         137,
		Correlation:        ptr(0.31),
		PValue:             ptr(0.012),
		StabilityScore:     ptr(0.66),
		DaysSinceData:      45,
		CorrelationCIWidth: ptr(0.34),
	}

	first := RelationshipTrust(in)
	second := RelationshipTrust(in)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Score, second.Score)
}

func TestProbabilityTrust(t *testing.T) {
	tests := []struct {
		name     string
		ece      float64
		n        int
		days     int
		score    float64
		rec      string
		warnings int
	}{
		{
			name:  "well calibrated large sample",
			ece:   0.01,
			n:     2000,
			score: 1.0,
			rec:   "HIGH TRUST: Use probabilities directly for Kelly",
		},
		{
			name:     "moderate calibration",
			ece:      0.07,
			n:        500,
			score:    0.60*0.60 + 0.5*0.25 + 0.15,
			rec:      "MODERATE TRUST: Apply calibration adjustment before Kelly",
			warnings: 1,
		},
		{
			name:     "poor and stale",
			ece:      0.2,
			n:        100,
			days:     360,
			score:    0.30*0.60 + 0.1*0.25 + 0.25*0.15,
			rec:      "LOW TRUST: Do not use for real-money betting",
			warnings: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ProbabilityTrust(tt.ece, tt.n, tt.days)
			assert.InDelta(t, tt.score, a.Score, 1e-9)
			assert.Equal(t, tt.rec, a.Recommendation)
			assert.Len(t, a.Warnings, tt.warnings)
		})
	}
}

func TestAssessmentMapRoundTrip(t *testing.T) {
	a := ProbabilityTrust(0.03, 800, 10)

	m, err := a.ToMap()
	require.NoError(t, err)
	assert.Contains(t, m, "components")

	back, err := FromMap(m)
	require.NoError(t, err)
	assert.InDelta(t, a.Score, back.Score, 1e-12)
	assert.Equal(t, a.Recommendation, back.Recommendation)
}
