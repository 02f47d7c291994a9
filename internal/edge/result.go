package edge

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/yourusername/betting-trust/internal/models"
)

// BaselineComparison compares model probabilities with market-implied ones
type BaselineComparison struct {
	ModelAccuracy  float64 `json:"model_accuracy"`
	MarketAccuracy float64 `json:"market_accuracy"`
	ModelLogLoss   float64 `json:"model_log_loss"`
	MarketLogLoss  float64 `json:"market_log_loss"`
	ModelIsBetter  bool    `json:"model_is_better"`
	Improvement    float64 `json:"improvement"`
}

// Result is the outcome of an edge validation
type Result struct {
	HasEdge           bool                `json:"has_edge"`
	ConfidenceLevel   float64             `json:"confidence_level"`
	EdgeEstimate      float64             `json:"edge_estimate"`
	EdgeCILow         float64             `json:"edge_ci_low"`
	EdgeCIHigh        float64             `json:"edge_ci_high"`
	EdgeStdErr        float64             `json:"edge_std_err"`
	PValue            float64             `json:"p_value"`
	PValueCLV         float64             `json:"p_value_clv"`
	ProfitSignificant bool                `json:"profit_significant"`
	NBets             int                 `json:"n_bets"`
	NCLVBets          int                 `json:"n_clv_bets"`
	MinBets           int                 `json:"min_bets"`
	SignificanceLevel float64             `json:"significance_level"`
	ROI               float64             `json:"roi"`
	TotalProfit       decimal.Decimal     `json:"total_profit"`
	TotalStaked       decimal.Decimal     `json:"total_staked"`
	CLVMean           float64             `json:"clv_mean"`
	Baseline          *BaselineComparison `json:"vs_baseline,omitempty"`
	Recommendation    string              `json:"recommendation"`
}

// Sufficient reports whether enough bets were recorded to run the tests.
func (r Result) Sufficient() bool {
	return r.NBets >= r.MinBets
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
