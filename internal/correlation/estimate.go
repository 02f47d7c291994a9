package correlation

import (
	"encoding/json"
	"time"

	"github.com/yourusername/betting-trust/internal/models"
)

// Summary statuses
const (
	StatusNoData = "no_data"
	StatusReady  = "ready"
)

// Estimate is an empirical correlation between two outcome labels
type Estimate struct {
	LabelA        string  `json:"label_a"`
	LabelB        string  `json:"label_b"`
	Correlation   float64 `json:"correlation"`
	StdErr        float64 `json:"std_error"`
	CILow         float64 `json:"ci_low"`
	CIHigh        float64 `json:"ci_high"`
	PValue        float64 `json:"p_value"`
	NSamples      int     `json:"n_samples"`
	IsSignificant bool    `json:"is_significant"`
	TrustLevel    float64 `json:"trust_level"`
}

// CIWidth returns the width of the confidence interval.
func (e Estimate) CIWidth() float64 {
	return e.CIHigh - e.CILow
}

// ToMap converts the estimate into a plain map.
func (e Estimate) ToMap() (map[string]any, error) {
	return models.ToMap(e)
}

// FromMap rebuilds an estimate from a plain map.
func FromMap(m map[string]any) (Estimate, error) {
	return models.FromMap[Estimate](m)
}

// ToJSON returns the estimate as a JSON string.
func (e Estimate) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

// Summary describes the event log behind the estimates
type Summary struct {
	Status      string         `json:"status"`
	NEvents     int            `json:"n_events"`
	FirstEvent  time.Time      `json:"first_event,omitempty"`
	LastEvent   time.Time      `json:"last_event,omitempty"`
	LabelCounts map[string]int `json:"label_counts"`
	MinSamples  int            `json:"min_samples"`
}
