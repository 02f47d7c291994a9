package calibration

import (
	"encoding/json"

	"github.com/yourusername/betting-trust/internal/models"
)

// BinResult describes one qualifying probability bin
type BinResult struct {
	Bin              int     `json:"bin"`
	RangeLow         float64 `json:"range_low"`
	RangeHigh        float64 `json:"range_high"`
	NSamples         int     `json:"n_samples"`
	MeanPredicted    float64 `json:"mean_predicted"`
	MeanActual       float64 `json:"mean_actual"`
	CalibrationError float64 `json:"calibration_error"`
	CILow            float64 `json:"ci_low"`
	CIHigh           float64 `json:"ci_high"`
	IsCalibrated     bool    `json:"is_calibrated"`
}

// Result is the outcome of a calibration evaluation
type Result struct {
	ECE            float64     `json:"expected_calibration_error"`
	MCE            float64     `json:"max_calibration_error"`
	BrierScore     float64     `json:"brier_score"`
	LogLoss        float64     `json:"log_loss"`
	NSamples       int         `json:"n_samples"`
	MinSamples     int         `json:"min_samples"`
	NBins          int         `json:"n_bins"`
	Bins           []BinResult `json:"bins"`
	Level          Level       `json:"level"`
	IsTrustworthy  bool        `json:"is_trustworthy"`
	Recommendation string      `json:"recommendation"`
}

// SamplesNeeded returns how many more records the evaluation needs.
func (r Result) SamplesNeeded() int {
	if r.NSamples >= r.MinSamples {
		return 0
	}
	return r.MinSamples - r.NSamples
}

// ToMap converts the result into a plain map.
func (r Result) ToMap() (map[string]any, error) {
	return models.ToMap(r)
}

// FromMap rebuilds a result from a plain map.
func FromMap(m map[string]any) (Result, error) {
	return models.FromMap[Result](m)
}

// ToJSON returns the result as a JSON string.
func (r Result) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}
