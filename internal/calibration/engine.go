// Package calibration measures how well predicted probabilities match observed frequencies.
package calibration

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betting-trust/internal/models"
	"github.com/yourusername/betting-trust/internal/stats"
)

// Defaults used when EvaluateOptions fields are left zero.
const (
	DefaultMinSamples       = 100
	DefaultBins             = 10
	DefaultMinSamplesPerBin = 30

	// MinRecordsForAdjustment is the log size below which Calibrate is a no-op.
	MinRecordsForAdjustment = 100

	trustworthyECE = 0.05
	trustworthyMCE = 0.10
	adjustedFloor  = 0.01
	adjustedCeil   = 0.99
)

// EvaluateOptions configures a calibration evaluation
type EvaluateOptions struct {
	MinSamples       int
	NBins            int
	MinSamplesPerBin int
}

func (o EvaluateOptions) withDefaults() EvaluateOptions {
	if o.MinSamples <= 0 {
		o.MinSamples = DefaultMinSamples
	}
	if o.NBins <= 0 {
		o.NBins = DefaultBins
	}
	if o.MinSamplesPerBin <= 0 {
		o.MinSamplesPerBin = DefaultMinSamplesPerBin
	}
	return o
}

// Option configures an Engine
type Option func(*Engine)

// WithBins sets the bin count used by Calibrate.
func WithBins(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bins = n
		}
	}
}

// WithMinSamplesPerBin sets the per-bin floor used by Calibrate.
func WithMinSamplesPerBin(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minPerBin = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine accumulates predictions and evaluates their calibration
type Engine struct {
	mu        sync.RWMutex
	records   []models.PredictionRecord
	bins      int
	minPerBin int
	logger    *logrus.Logger
	now       func() time.Time
}

// NewEngine creates an empty calibration engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bins:      DefaultBins,
		minPerBin: DefaultMinSamplesPerBin,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logrus.New()
		e.logger.SetLevel(logrus.WarnLevel)
	}
	return e
}

// Record appends a prediction and its outcome. The probability is not range checked.
func (e *Engine) Record(predicted float64, outcome bool, metadata map[string]any) models.PredictionRecord {
	rec := models.PredictionRecord{
		ID:                   uuid.New(),
		PredictedProbability: predicted,
		ActualOutcome:        outcome,
		Metadata:             metadata,
		RecordedAt:           e.now(),
	}

	e.mu.Lock()
	e.records = append(e.records, rec)
	e.mu.Unlock()

	return rec
}

// Len returns the number of recorded predictions.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.records)
}

func (e *Engine) snapshot() ([]float64, []float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	predicted := make([]float64, len(e.records))
	actual := make([]float64, len(e.records))
	for i, rec := range e.records {
		predicted[i] = rec.PredictedProbability
		actual[i] = rec.Outcome()
	}
	return predicted, actual
}

// Evaluate bins the recorded predictions and computes calibration metrics.
func (e *Engine) Evaluate(opts EvaluateOptions) Result {
	opts = opts.withDefaults()
	predicted, actual := e.snapshot()
	n := len(predicted)

	if n < opts.MinSamples {
		e.logger.WithFields(logrus.Fields{
			"samples":     n,
			"min_samples": opts.MinSamples,
		}).Debug("Calibration evaluation skipped: insufficient samples")
		return insufficientResult(n, opts.MinSamples)
	}

	bins := binStats(predicted, actual, opts.NBins)

	var (
		ece, mce  float64
		qualified []BinResult
	)
	for i, b := range bins {
		if b.count < opts.MinSamplesPerBin {
			continue
		}
		meanPred := b.sumPred / float64(b.count)
		meanActual := b.sumActual / float64(b.count)
		gap := math.Abs(meanPred - meanActual)
		lo, hi := stats.WaldInterval(meanActual, b.count)

		ece += float64(b.count) / float64(n) * gap
		mce = math.Max(mce, gap)

		qualified = append(qualified, BinResult{
			Bin:              i,
			RangeLow:         float64(i) / float64(opts.NBins),
			RangeHigh:        float64(i+1) / float64(opts.NBins),
			NSamples:         b.count,
			MeanPredicted:    meanPred,
			MeanActual:       meanActual,
			CalibrationError: gap,
			CILow:            lo,
			CIHigh:           hi,
			IsCalibrated:     meanPred >= lo && meanPred <= hi,
		})
	}

	level := LevelForECE(ece)
	result := Result{
		ECE:            ece,
		MCE:            mce,
		BrierScore:     stats.BrierScore(predicted, actual),
		LogLoss:        stats.LogLoss(predicted, actual),
		NSamples:       n,
		MinSamples:     opts.MinSamples,
		NBins:          opts.NBins,
		Bins:           qualified,
		Level:          level,
		IsTrustworthy:  ece < trustworthyECE && mce < trustworthyMCE,
		Recommendation: recommendation(ece),
	}

	e.logger.WithFields(logrus.Fields{
		"samples":           n,
		"ece":               ece,
		"mce":               mce,
		"calibration_level": level.String(),
		"qualified_bins":    len(qualified),
	}).Debug("Calibration evaluated")

	return result
}

// Calibrate shifts p by the historical gap observed in its bin.
func (e *Engine) Calibrate(p float64) float64 {
	predicted, actual := e.snapshot()
	if len(predicted) < MinRecordsForAdjustment {
		return p
	}

	e.mu.RLock()
	nBins, minPerBin := e.bins, e.minPerBin
	e.mu.RUnlock()

	bins := binStats(predicted, actual, nBins)
	b := bins[binIndex(p, nBins)]
	if b.count < minPerBin {
		return p
	}

	shift := b.sumActual/float64(b.count) - b.sumPred/float64(b.count)
	return stats.Clip(p+shift, adjustedFloor, adjustedCeil)
}

type binAccumulator struct {
	count     int
	sumPred   float64
	sumActual float64
}

// binIndex places p in [i/n, (i+1)/n); the final bin also takes 1.0.
// Values outside [0, 1] go to the nearest end bin.
func binIndex(p float64, nBins int) int {
	idx := int(math.Floor(p * float64(nBins)))
	if idx < 0 {
		return 0
	}
	if idx >= nBins {
		return nBins - 1
	}
	return idx
}

func binStats(predicted, actual []float64, nBins int) []binAccumulator {
	bins := make([]binAccumulator, nBins)
	for i, p := range predicted {
		b := &bins[binIndex(p, nBins)]
		b.count++
		b.sumPred += p
		b.sumActual += actual[i]
	}
	return bins
}

func recommendation(ece float64) string {
	switch {
	case ece < trustworthyECE:
		return fmt.Sprintf("Model is well-calibrated (ECE=%.3f). Safe for Kelly betting.", ece)
	case ece < 0.10:
		return fmt.Sprintf("Model has moderate calibration error (ECE=%.3f). Use with caution, reduce Kelly fraction.", ece)
	default:
		return fmt.Sprintf("Model is poorly calibrated (ECE=%.3f). DO NOT use for betting until fixed.", ece)
	}
}

func insufficientResult(n, minSamples int) Result {
	return Result{
		ECE:            1,
		MCE:            1,
		BrierScore:     1,
		LogLoss:        10,
		NSamples:       n,
		MinSamples:     minSamples,
		Level:          LevelUnusable,
		IsTrustworthy:  false,
		Recommendation: fmt.Sprintf("Need at least %d samples, have %d", minSamples, n),
	}
}
