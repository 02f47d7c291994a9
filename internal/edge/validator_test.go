package edge

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betting-trust/internal/models"
)

func ptr(v float64) *float64 { return &v }

// evenOddsBook records n bets at 2.0 for 100 each, the first wins of which win.
func evenOddsBook(t *testing.T, n, wins int, modelProb float64, closing *float64) *Validator {
	t.Helper()
	v := NewValidator()
	for i := 0; i < n; i++ {
		_, err := v.RecordBet(BetInput{
			ModelProbability:  modelProb,
			MarketProbability: 0.5,
			DecimalOdds:       2.0,
			Stake:             100,
			Won:               i < wins,
			ClosingOdds:       closing,
		})
		require.NoError(t, err)
	}
	return v
}

func TestValidateInsufficientBets(t *testing.T) {
	v := evenOddsBook(t, 150, 120, 0.6, ptr(1.8))

	res, err := v.Validate(context.Background(), ValidateOptions{})
	require.NoError(t, err)

	assert.False(t, res.HasEdge)
	assert.Equal(t, 0.0, res.ROI)
	assert.Equal(t, 0.0, res.ConfidenceLevel)
	assert.Equal(t, 0.0, res.CLVMean)
	assert.Equal(t, 1.0, res.PValue)
	assert.True(t, res.TotalProfit.IsZero())
	assert.Nil(t, res.Baseline)
	assert.Equal(t, 150, res.NBets)
	assert.False(t, res.Sufficient())
	assert.Equal(t, "Need at least 200 bets for validation, have 150", res.Recommendation)
}

func TestValidateEndToEnd(t *testing.T) {
	v := evenOddsBook(t, 250, 140, 0.56, ptr(1.9))

	t.Run("strict significance", func(t *testing.T) {
		res, err := v.Validate(context.Background(), ValidateOptions{Seed: 7})
		require.NoError(t, err)

		assert.InDelta(t, 0.12, res.ROI, 1e-12)
		assert.True(t, res.TotalProfit.Equal(decimal.NewFromInt(3000)))
		assert.True(t, res.TotalStaked.Equal(decimal.NewFromInt(25000)))
		assert.Greater(t, res.PValue, 0.05)
		assert.Less(t, res.PValue, 0.10)
		assert.False(t, res.ProfitSignificant)
		assert.False(t, res.HasEdge)
		assert.Equal(t, "UNCERTAIN: Profit could be luck. Need more bets for statistical significance.", res.Recommendation)
	})

	t.Run("ten percent significance", func(t *testing.T) {
		res, err := v.Validate(context.Background(), ValidateOptions{SignificanceLevel: 0.10, Seed: 7})
		require.NoError(t, err)

		assert.True(t, res.ProfitSignificant)
		assert.InDelta(t, 1/1.9-0.5, res.CLVMean, 1e-9)
		assert.Equal(t, 250, res.NCLVBets)
		assert.True(t, res.HasEdge)
		assert.Greater(t, res.ConfidenceLevel, 0.95)
		assert.Equal(t, "STRONG EDGE: Statistically significant profit with positive CLV. Safe for live betting.", res.Recommendation)

		require.NotNil(t, res.Baseline)
		assert.True(t, res.Baseline.ModelIsBetter)
		assert.InDelta(t, 0.56, res.Baseline.ModelAccuracy, 1e-12)
		assert.InDelta(t, 0.44, res.Baseline.MarketAccuracy, 1e-12)
		assert.Greater(t, res.Baseline.Improvement, 0.0)
	})
}

func TestValidateGateRequiresCLVOrBetterModel(t *testing.T) {
	// significant profit, closing price drifted against us, model equals market
	v := evenOddsBook(t, 300, 180, 0.5, ptr(2.1))

	res, err := v.Validate(context.Background(), ValidateOptions{Seed: 11})
	require.NoError(t, err)

	assert.Less(t, res.PValue, 0.05)
	assert.True(t, res.ProfitSignificant)
	assert.Less(t, res.CLVMean, 0.0)
	require.NotNil(t, res.Baseline)
	assert.Equal(t, res.Baseline.ModelLogLoss, res.Baseline.MarketLogLoss)
	assert.False(t, res.Baseline.ModelIsBetter)
	assert.False(t, res.HasEdge)
	assert.Equal(t, "NO EDGE: Negative CLV indicates market is more accurate than model.", res.Recommendation)
}

func TestValidateWithoutClosingOdds(t *testing.T) {
	v := evenOddsBook(t, 300, 180, 0.6, nil)

	res, err := v.Validate(context.Background(), ValidateOptions{Seed: 3})
	require.NoError(t, err)

	assert.Equal(t, 0, res.NCLVBets)
	assert.Equal(t, 0.0, res.CLVMean)
	assert.Equal(t, 1.0, res.PValueCLV)
	// log-loss branch of the gate carries the verdict
	assert.True(t, res.Baseline.ModelIsBetter)
	assert.True(t, res.HasEdge)
	assert.InDelta(t, 1-res.PValue, res.ConfidenceLevel, 1e-12)
}

func TestValidateLosingBook(t *testing.T) {
	v := evenOddsBook(t, 300, 120, 0.5, nil)

	res, err := v.Validate(context.Background(), ValidateOptions{Seed: 5})
	require.NoError(t, err)

	assert.False(t, res.HasEdge)
	assert.Less(t, res.ROI, 0.0)
	assert.Equal(t, "NO EDGE DETECTED: Model does not beat market odds baseline.", res.Recommendation)
}

func TestBootstrapIntervalCoversROI(t *testing.T) {
	v := evenOddsBook(t, 250, 140, 0.56, ptr(1.9))

	for _, seed := range []int64{1, 2} {
		res, err := v.Validate(context.Background(), ValidateOptions{BootstrapIterations: 4000, Seed: seed})
		require.NoError(t, err)

		assert.LessOrEqual(t, res.EdgeCILow, res.ROI)
		assert.GreaterOrEqual(t, res.EdgeCIHigh, res.ROI)
		assert.Greater(t, res.EdgeStdErr, 0.0)
		// analytic standard error of ROI is about 0.063
		assert.InDelta(t, 0.063, res.EdgeStdErr, 0.01)
	}
}

func TestBootstrapDeterministicAcrossWorkers(t *testing.T) {
	v := evenOddsBook(t, 220, 130, 0.6, ptr(1.95))

	one, err := v.Validate(context.Background(), ValidateOptions{Seed: 42, Workers: 1, BootstrapIterations: 1100})
	require.NoError(t, err)
	many, err := v.Validate(context.Background(), ValidateOptions{Seed: 42, Workers: 8, BootstrapIterations: 1100})
	require.NoError(t, err)

	assert.Equal(t, one.EdgeCILow, many.EdgeCILow)
	assert.Equal(t, one.EdgeCIHigh, many.EdgeCIHigh)
	assert.Equal(t, one.EdgeStdErr, many.EdgeStdErr)
}

func TestInjectedSourceIsUsedWhenUnseeded(t *testing.T) {
	calls := 0
	v := NewValidator(WithSourceFunc(func() rand.Source {
		calls++
		return rand.NewSource(99)
	}))
	for i := 0; i < 200; i++ {
		_, err := v.RecordBet(BetInput{ModelProbability: 0.5, MarketProbability: 0.5, DecimalOdds: 2, Stake: 10, Won: i%2 == 0})
		require.NoError(t, err)
	}

	a, err := v.Validate(context.Background(), ValidateOptions{})
	require.NoError(t, err)
	b, err := v.Validate(context.Background(), ValidateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, a.EdgeCILow, b.EdgeCILow)
}

func TestValidateHonoursCancelledContext(t *testing.T) {
	v := evenOddsBook(t, 250, 140, 0.56, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Validate(ctx, ValidateOptions{Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordBetRejectsInvalidInput(t *testing.T) {
	v := NewValidator()

	_, err := v.RecordBet(BetInput{DecimalOdds: 1, Stake: 10})
	assert.ErrorIs(t, err, models.ErrInvalidBet)

	_, err = v.RecordBet(BetInput{DecimalOdds: 2, Stake: -5})
	assert.ErrorIs(t, err, models.ErrInvalidBet)

	assert.Equal(t, 0, v.Len())
}

func TestNewBetDoesNotRecord(t *testing.T) {
	v := NewValidator()

	bet, err := NewBet(BetInput{ModelProbability: 0.6, MarketProbability: 0.5, DecimalOdds: 2, Stake: 10, Won: true})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, bet.ProfitFloat(), 1e-9)
	assert.Equal(t, 0, v.Len())

	v.RecordBets(bet, bet)
	assert.Equal(t, 2, v.Len())
}

func TestGenerateReport(t *testing.T) {
	v := evenOddsBook(t, 250, 140, 0.56, ptr(1.9))
	res, err := v.Validate(context.Background(), ValidateOptions{SignificanceLevel: 0.10, Seed: 7})
	require.NoError(t, err)

	report := GenerateReport(res)

	assert.Contains(t, report, "EDGE VALIDATION REPORT")
	assert.Contains(t, report, "Total Bets: 250")
	assert.Contains(t, report, "Minimum Required: 200")
	assert.Contains(t, report, "ROI: 12.00%")
	assert.Contains(t, report, "Statistically Significant: YES")
	assert.Contains(t, report, "Interpretation: Beating the market")
	assert.Contains(t, report, "Has Edge: YES")
	assert.Contains(t, report, res.Recommendation)

	empty := GenerateReport(Result{MinBets: 200, PValue: 1, Recommendation: "Need more"})
	assert.Contains(t, empty, "Status: Insufficient")
	assert.Contains(t, empty, "Model Better: NO")
}

func TestResultMapRoundTrip(t *testing.T) {
	v := evenOddsBook(t, 250, 140, 0.56, ptr(1.9))
	res, err := v.Validate(context.Background(), ValidateOptions{Seed: 7})
	require.NoError(t, err)

	m, err := res.ToMap()
	require.NoError(t, err)
	assert.Contains(t, m, "vs_baseline")

	back, err := FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, res.HasEdge, back.HasEdge)
	assert.Equal(t, res.ROI, back.ROI)
	assert.True(t, res.TotalProfit.Equal(back.TotalProfit))
	assert.Equal(t, *res.Baseline, *back.Baseline)
}
