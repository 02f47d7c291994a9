// Package trust turns evidence summaries into auditable composite trust scores.
package trust

import (
	"encoding/json"
	"sort"

	"github.com/yourusername/betting-trust/internal/models"
)

// Factor is one weighted input to a composite score
type Factor struct {
	Value  float64
	Weight float64
}

// Assessment is a composite trust score with its full breakdown
type Assessment struct {
	Score          float64            `json:"score"`
	Components     map[string]float64 `json:"components"`
	Weights        map[string]float64 `json:"weights"`
	Recommendation string             `json:"recommendation"`
	Warnings       []string           `json:"warnings"`
}

// Composite returns the weighted sum of factors and the per-factor values.
// Factors are summed in name order so the same input always yields the same bits.
func Composite(factors map[string]Factor) (float64, map[string]float64, map[string]float64) {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]float64, len(factors))
	weights := make(map[string]float64, len(factors))
	score := 0.0
	for _, name := range names {
		f := factors[name]
		components[name] = f.Value
		weights[name] = f.Weight
		score += f.Value * f.Weight
	}
	return score, components, weights
}

// stepScore returns scores[i] for the first threshold satisfied by cmp, else fallback.
func stepScore(v float64, thresholds, scores []float64, cmp func(v, threshold float64) bool, fallback float64) float64 {
	for i, threshold := range thresholds {
		if cmp(v, threshold) {
			return scores[i]
		}
	}
	return fallback
}

func atLeast(v, threshold float64) bool { return v >= threshold }
func below(v, threshold float64) bool   { return v < threshold }

// ToMap converts the assessment into a plain map.
func (a Assessment) ToMap() (map[string]any, error) {
	return models.ToMap(a)
}

// FromMap rebuilds an assessment from a plain map.
func FromMap(m map[string]any) (Assessment, error) {
	return models.FromMap[Assessment](m)
}

// ToJSON returns the assessment as a JSON string.
func (a Assessment) ToJSON() string {
	data, _ := json.Marshal(a)
	return string(data)
}
