// Package edge decides whether a betting record shows a real, repeatable edge.
package edge

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betting-trust/internal/models"
	"github.com/yourusername/betting-trust/internal/stats"
)

// Defaults used when ValidateOptions fields are left zero.
const (
	DefaultMinBets             = 200
	DefaultSignificanceLevel   = 0.05
	DefaultBootstrapIterations = 1000

	minCLVEdge       = 0.01
	strongConfidence = 0.95
)

// BetInput describes a settled bet to record
type BetInput struct {
	ModelProbability  float64
	MarketProbability float64
	DecimalOdds       float64
	Stake             float64
	Won               bool
	ClosingOdds       *float64
	BetType           string
	Timestamp         time.Time
}

// ValidateOptions configures an edge validation
type ValidateOptions struct {
	MinBets             int
	SignificanceLevel   float64
	BootstrapIterations int
	// Workers bounds bootstrap parallelism; zero uses GOMAXPROCS.
	Workers int
	// Seed makes the bootstrap deterministic when non-zero.
	Seed int64
}

func (o ValidateOptions) withDefaults() ValidateOptions {
	if o.MinBets <= 0 {
		o.MinBets = DefaultMinBets
	}
	if o.SignificanceLevel <= 0 {
		o.SignificanceLevel = DefaultSignificanceLevel
	}
	if o.BootstrapIterations <= 0 {
		o.BootstrapIterations = DefaultBootstrapIterations
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Option configures a Validator
type Option func(*Validator)

// WithLogger attaches a logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithSourceFunc sets the random source factory used for unseeded validations.
func WithSourceFunc(fn func() rand.Source) Option {
	return func(v *Validator) {
		if fn != nil {
			v.newSource = fn
		}
	}
}

// Validator accumulates bets and tests them for a statistically real edge
type Validator struct {
	mu        sync.RWMutex
	bets      []models.BetRecord
	logger    *logrus.Logger
	newSource func() rand.Source
}

// NewValidator creates an empty edge validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		newSource: func() rand.Source { return rand.NewSource(time.Now().UnixNano()) },
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logrus.New()
		v.logger.SetLevel(logrus.WarnLevel)
	}
	return v
}

// NewBet settles a bet without recording it. Odds must exceed 1 and stake
// must be positive.
func NewBet(in BetInput) (models.BetRecord, error) {
	return models.NewBetRecord(
		in.ModelProbability,
		in.MarketProbability,
		in.DecimalOdds,
		in.Stake,
		in.Won,
		in.ClosingOdds,
		in.BetType,
		in.Timestamp,
	)
}

// RecordBet appends a settled bet. Odds must exceed 1 and stake must be positive.
func (v *Validator) RecordBet(in BetInput) (models.BetRecord, error) {
	bet, err := NewBet(in)
	if err != nil {
		return models.BetRecord{}, err
	}
	v.RecordBets(bet)
	return bet, nil
}

// RecordBets appends already settled bets in one step.
func (v *Validator) RecordBets(bets ...models.BetRecord) {
	v.mu.Lock()
	v.bets = append(v.bets, bets...)
	v.mu.Unlock()
}

// Len returns the number of recorded bets.
func (v *Validator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.bets)
}

func (v *Validator) snapshot() []models.BetRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.BetRecord, len(v.bets))
	copy(out, v.bets)
	return out
}

// Validate runs the profit and CLV significance tests, the market baseline
// comparison and the bootstrap ROI interval over all recorded bets.
func (v *Validator) Validate(ctx context.Context, opts ValidateOptions) (Result, error) {
	opts = opts.withDefaults()
	bets := v.snapshot()
	n := len(bets)

	if n < opts.MinBets {
		v.logger.WithFields(logrus.Fields{
			"bets":     n,
			"min_bets": opts.MinBets,
		}).Debug("Edge validation skipped: insufficient bets")
		return insufficientResult(n, opts), nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	profits := make([]float64, n)
	stakes := make([]float64, n)
	modelProbs := make([]float64, n)
	marketProbs := make([]float64, n)
	outcomes := make([]float64, n)
	var clvs []float64
	totalProfit, totalStaked := decimal.Zero, decimal.Zero
	for i, bet := range bets {
		profits[i] = bet.ProfitFloat()
		stakes[i] = bet.Stake
		modelProbs[i] = bet.ModelProbability
		marketProbs[i] = bet.MarketProbability
		if bet.Won {
			outcomes[i] = 1
		}
		if clv, ok := bet.CLV(); ok {
			clvs = append(clvs, clv)
		}
		totalProfit = totalProfit.Add(bet.Profit)
		totalStaked = totalStaked.Add(decimal.NewFromFloat(bet.Stake))
	}

	roi := totalProfit.Div(totalStaked).InexactFloat64()

	profitTest := stats.OneSampleTTest(profits)
	profitSignificant := profitTest.PValue < opts.SignificanceLevel && totalProfit.IsPositive()

	clvTest := stats.TTestResult{PValue: 1}
	if len(clvs) > 0 {
		clvTest = stats.OneSampleTTest(clvs)
	}
	clvMean := stats.Mean(clvs)
	clvPositive := len(clvs) > 0 && clvMean > minCLVEdge

	baseline := compareBaseline(modelProbs, marketProbs, outcomes)

	src := v.newSource()
	if opts.Seed != 0 {
		src = rand.NewSource(opts.Seed)
	}
	rois, err := bootstrapROI(ctx, profits, stakes, opts.BootstrapIterations, opts.Workers, src)
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap failed: %w", err)
	}

	hasEdge := profitSignificant && (clvPositive || baseline.ModelIsBetter)
	confidence := 1 - min(profitTest.PValue, clvTest.PValue)

	result := Result{
		HasEdge:           hasEdge,
		ConfidenceLevel:   confidence,
		EdgeEstimate:      roi,
		EdgeCILow:         stats.Percentile(rois, 2.5),
		EdgeCIHigh:        stats.Percentile(rois, 97.5),
		EdgeStdErr:        stats.StdDev(rois),
		PValue:            profitTest.PValue,
		PValueCLV:         clvTest.PValue,
		ProfitSignificant: profitSignificant,
		NBets:             n,
		NCLVBets:          len(clvs),
		MinBets:           opts.MinBets,
		SignificanceLevel: opts.SignificanceLevel,
		ROI:               roi,
		TotalProfit:       totalProfit,
		TotalStaked:       totalStaked,
		CLVMean:           clvMean,
		Baseline:          &baseline,
	}
	result.Recommendation = recommendation(result)

	v.logger.WithFields(logrus.Fields{
		"bets":       n,
		"roi":        roi,
		"p_value":    profitTest.PValue,
		"clv_mean":   clvMean,
		"has_edge":   hasEdge,
		"confidence": confidence,
	}).Debug("Edge validated")

	return result, nil
}

func compareBaseline(modelProbs, marketProbs, outcomes []float64) BaselineComparison {
	modelLL := stats.LogLoss(modelProbs, outcomes)
	marketLL := stats.LogLoss(marketProbs, outcomes)

	cmp := BaselineComparison{
		ModelAccuracy:  accuracy(modelProbs, outcomes),
		MarketAccuracy: accuracy(marketProbs, outcomes),
		ModelLogLoss:   modelLL,
		MarketLogLoss:  marketLL,
		ModelIsBetter:  modelLL < marketLL,
	}
	if marketLL > 0 {
		cmp.Improvement = (marketLL - modelLL) / marketLL
	}
	return cmp
}

// accuracy is the share of bets where p > 0.5 agreed with the outcome.
func accuracy(probs, outcomes []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	correct := 0
	for i, p := range probs {
		if (p > 0.5) == (outcomes[i] == 1) {
			correct++
		}
	}
	return float64(correct) / float64(len(probs))
}

func recommendation(r Result) string {
	switch {
	case r.HasEdge && r.ConfidenceLevel > strongConfidence:
		return "STRONG EDGE: Statistically significant profit with positive CLV. Safe for live betting."
	case r.HasEdge:
		return fmt.Sprintf("LIKELY EDGE: Positive indicators but confidence is %.0f%%. Continue testing.", r.ConfidenceLevel*100)
	case r.TotalProfit.IsPositive() && !r.ProfitSignificant:
		return "UNCERTAIN: Profit could be luck. Need more bets for statistical significance."
	case r.CLVMean < 0:
		return "NO EDGE: Negative CLV indicates market is more accurate than model."
	default:
		return "NO EDGE DETECTED: Model does not beat market odds baseline."
	}
}

func insufficientResult(n int, opts ValidateOptions) Result {
	return Result{
		PValue:            1,
		PValueCLV:         1,
		NBets:             n,
		MinBets:           opts.MinBets,
		SignificanceLevel: opts.SignificanceLevel,
		TotalProfit:       decimal.Zero,
		TotalStaked:       decimal.Zero,
		Recommendation:    fmt.Sprintf("Need at least %d bets for validation, have %d", opts.MinBets, n),
	}
}
