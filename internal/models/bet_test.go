package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBetRecordSettlesProfit(t *testing.T) {
	tests := []struct {
		name   string
		odds   float64
		stake  float64
		won    bool
		profit string
	}{
		{name: "winner at evens", odds: 2.0, stake: 100, won: true, profit: "100"},
		{name: "winner at long odds", odds: 3.25, stake: 40, won: true, profit: "90"},
		{name: "loser", odds: 2.5, stake: 100, won: false, profit: "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, err := NewBetRecord(0.5, 1/tt.odds, tt.odds, tt.stake, tt.won, nil, "", time.Time{})
			require.NoError(t, err)
			assert.True(t, bet.Profit.Equal(decimal.RequireFromString(tt.profit)), "got %s", bet.Profit)
			assert.False(t, bet.Timestamp.IsZero())
		})
	}
}

func TestNewBetRecordRejectsMalformedInput(t *testing.T) {
	_, err := NewBetRecord(0.5, 0.5, 1.0, 100, true, nil, "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidBet)

	_, err = NewBetRecord(0.5, 0.5, 2.0, 0, true, nil, "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidBet)

	closing := 0.9
	_, err = NewBetRecord(0.5, 0.5, 2.0, 10, true, &closing, "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestBetRecordCLV(t *testing.T) {
	closing := 1.9
	bet, err := NewBetRecord(0.55, 0.5, 2.0, 100, true, &closing, "moneyline", time.Now())
	require.NoError(t, err)

	clv, ok := bet.CLV()
	require.True(t, ok)
	assert.InDelta(t, 1/1.9-0.5, clv, 1e-12)

	// caller's pointer is not retained
	closing = 5
	clv, _ = bet.CLV()
	assert.InDelta(t, 1/1.9-0.5, clv, 1e-12)

	noClose, err := NewBetRecord(0.55, 0.5, 2.0, 100, true, nil, "", time.Now())
	require.NoError(t, err)
	_, ok = noClose.CLV()
	assert.False(t, ok)
}

func TestGameOutcomeLookup(t *testing.T) {
	rec := GameOutcomeRecord{EventID: "g1", Outcomes: map[string]bool{"home_ml": true, "over": false}}

	v, ok := rec.Lookup("home_ml")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = rec.Lookup("over")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = rec.Lookup("spread")
	assert.False(t, ok)
}

func TestToMapFromMap(t *testing.T) {
	run := EvaluationRun{Trustworthy: true, ECE: 0.012, Issues: []string{"a"}, Recommendation: "ok"}

	m, err := ToMap(run)
	require.NoError(t, err)
	assert.Equal(t, true, m["trustworthy"])
	assert.Equal(t, "ok", m["recommendation"])

	back, err := FromMap[EvaluationRun](m)
	require.NoError(t, err)
	assert.Equal(t, run.ECE, back.ECE)
	assert.Equal(t, run.Issues, back.Issues)
}
