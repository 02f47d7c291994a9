package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetRecord represents a settled bet used for edge validation
type BetRecord struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ModelProbability  float64         `db:"model_probability" json:"model_probability" validate:"gte=0,lte=1"`
	MarketProbability float64         `db:"market_probability" json:"market_probability" validate:"gte=0,lte=1"`
	DecimalOdds       float64         `db:"decimal_odds" json:"decimal_odds" validate:"gt=1"`
	Stake             float64         `db:"stake" json:"stake" validate:"gt=0"`
	Won               bool            `db:"won" json:"won"`
	ClosingOdds       *float64        `db:"closing_odds" json:"closing_odds,omitempty" validate:"omitempty,gt=1"`
	BetType           string          `db:"bet_type" json:"bet_type,omitempty"`
	Timestamp         time.Time       `db:"timestamp" json:"timestamp"`
	Profit            decimal.Decimal `db:"profit" json:"profit"`
}

// NewBetRecord builds a bet record and settles its profit.
func NewBetRecord(modelProb, marketProb, odds, stake float64, won bool, closingOdds *float64, betType string, ts time.Time) (BetRecord, error) {
	if odds <= 1 {
		return BetRecord{}, fmt.Errorf("%w: decimal odds must be greater than 1, got %v", ErrInvalidBet, odds)
	}
	if stake <= 0 {
		return BetRecord{}, fmt.Errorf("%w: stake must be positive, got %v", ErrInvalidBet, stake)
	}
	if closingOdds != nil && *closingOdds <= 1 {
		return BetRecord{}, fmt.Errorf("%w: closing odds must be greater than 1, got %v", ErrInvalidBet, *closingOdds)
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	var closing *float64
	if closingOdds != nil {
		c := *closingOdds
		closing = &c
	}

	return BetRecord{
		ID:                uuid.New(),
		ModelProbability:  modelProb,
		MarketProbability: marketProb,
		DecimalOdds:       odds,
		Stake:             stake,
		Won:               won,
		ClosingOdds:       closing,
		BetType:           betType,
		Timestamp:         ts,
		Profit:            SettleProfit(stake, odds, won),
	}, nil
}

// SettleProfit returns stake*(odds-1) for a winner and -stake for a loser.
func SettleProfit(stake, odds float64, won bool) decimal.Decimal {
	s := decimal.NewFromFloat(stake)
	if !won {
		return s.Neg()
	}
	return s.Mul(decimal.NewFromFloat(odds).Sub(decimal.NewFromInt(1)))
}

// ProfitFloat returns the settled profit as a float64.
func (b BetRecord) ProfitFloat() float64 {
	return b.Profit.InexactFloat64()
}

// CLV returns the closing line value and whether closing odds were recorded.
func (b BetRecord) CLV() (float64, bool) {
	if b.ClosingOdds == nil {
		return 0, false
	}
	return 1/(*b.ClosingOdds) - 1/b.DecimalOdds, true
}
