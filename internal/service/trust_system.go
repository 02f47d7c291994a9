// Package service combines the calibration, correlation, trust and edge
// engines into a single evaluation entry point.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/yourusername/betting-trust/internal/calibration"
	"github.com/yourusername/betting-trust/internal/config"
	"github.com/yourusername/betting-trust/internal/correlation"
	"github.com/yourusername/betting-trust/internal/edge"
	"github.com/yourusername/betting-trust/internal/logger"
	"github.com/yourusername/betting-trust/internal/metrics"
	"github.com/yourusername/betting-trust/internal/models"
	"github.com/yourusername/betting-trust/internal/trust"
)

// TrustSystem routes historical data into the engines and aggregates their verdicts
type TrustSystem struct {
	cfg         config.EvaluationConfig
	calibration *calibration.Engine
	correlation *correlation.Engine
	edge        *edge.Validator
	logger      *logrus.Logger
	evalLog     *logger.EvaluationLogger
	audit       *logger.AuditLogger
}

// LoadSummary counts what a bulk load added to each engine
type LoadSummary struct {
	Predictions int `json:"predictions"`
	Bets        int `json:"bets"`
	Events      int `json:"events"`
}

// NewTrustSystem creates a trust system with the given thresholds. Zero
// thresholds fall back to the defaults.
func NewTrustSystem(cfg config.EvaluationConfig, log *logrus.Logger) *TrustSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	metrics.InitRegistry()

	cfg = cfg.WithDefaults()

	return &TrustSystem{
		cfg: cfg,
		calibration: calibration.NewEngine(
			calibration.WithBins(cfg.Calibration.Bins),
			calibration.WithMinSamplesPerBin(cfg.Calibration.MinSamplesPerBin),
			calibration.WithLogger(log),
		),
		correlation: correlation.NewEngine(
			correlation.WithMinSamples(cfg.Correlation.MinSamples),
			correlation.WithLogger(log),
		),
		edge:    edge.NewValidator(edge.WithLogger(log)),
		logger:  log,
		evalLog: logger.NewEvaluationLogger(log),
		audit:   logger.NewAuditLogger(log),
	}
}

// LoadHistoricalOutcomes records prediction rows into the calibration engine,
// rows carrying decimal odds into the edge validator, and outcome rows into
// the correlation engine. source names the data origin for the audit log.
// Every bet is settled before anything is recorded, so a rejected row leaves
// the engines untouched.
func (s *TrustSystem) LoadHistoricalOutcomes(source string, predictions []models.PredictionRow, outcomes []models.OutcomeRow) (LoadSummary, error) {
	var summary LoadSummary

	bets := make([]models.BetRecord, 0, len(predictions))
	for i, row := range predictions {
		if row.DecimalOdds == nil {
			continue
		}
		odds := *row.DecimalOdds
		bet, err := edge.NewBet(edge.BetInput{
			ModelProbability:  row.PredictedProb,
			MarketProbability: 1 / odds,
			DecimalOdds:       odds,
			Stake:             s.stakeFor(row),
			Won:               row.ActualOutcome,
			ClosingOdds:       row.ClosingOdds,
		})
		if err != nil {
			return summary, fmt.Errorf("prediction row %d: %w", i+1, err)
		}
		bets = append(bets, bet)
	}

	for _, row := range predictions {
		s.calibration.Record(row.PredictedProb, row.ActualOutcome, nil)
	}
	s.edge.RecordBets(bets...)
	summary.Predictions = len(predictions)
	summary.Bets = len(bets)

	for i, row := range outcomes {
		if len(row.Outcomes) == 0 {
			continue
		}
		gameID := row.GameID
		if gameID == "" {
			gameID = fmt.Sprintf("%d", i)
		}
		s.correlation.RecordEvent(gameID, row.Outcomes, row.GameDate)
		summary.Events++
	}

	metrics.RecordLoaded("predictions", summary.Predictions)
	metrics.RecordLoaded("bets", summary.Bets)
	metrics.RecordLoaded("events", summary.Events)
	metrics.UpdateCorrelationEvents(s.correlation.Len())
	s.audit.LogDataLoaded(source, summary.Predictions, summary.Bets, summary.Events)

	return summary, nil
}

func (s *TrustSystem) stakeFor(row models.PredictionRow) float64 {
	if row.Stake == nil && s.cfg.System.DefaultStake > 0 {
		return s.cfg.System.DefaultStake
	}
	return row.StakeOrDefault()
}

// ValidateCalibration evaluates the recorded predictions
func (s *TrustSystem) ValidateCalibration() calibration.Result {
	start := time.Now()
	result := s.calibration.Evaluate(calibration.EvaluateOptions{
		MinSamples:       s.cfg.Calibration.MinSamples,
		NBins:            s.cfg.Calibration.Bins,
		MinSamplesPerBin: s.cfg.Calibration.MinSamplesPerBin,
	})
	elapsed := time.Since(start)

	status := metrics.StatusSuccess
	if result.NSamples < result.MinSamples {
		status = metrics.StatusInsufficient
	}
	metrics.RecordEvaluation(metrics.ComponentCalibration, status, elapsed.Seconds())
	metrics.UpdateCalibration(result.NSamples, result.ECE, result.MCE)
	s.evalLog.LogCalibration(result.NSamples, result.ECE, result.MCE, result.Level.String(), result.IsTrustworthy, elapsed)

	return result
}

// Calibrate adjusts a raw model probability using the recorded history
func (s *TrustSystem) Calibrate(p float64) float64 {
	return s.calibration.Calibrate(p)
}

// EmpiricalCorrelation estimates the correlation between two outcome labels
func (s *TrustSystem) EmpiricalCorrelation(labelA, labelB string) correlation.Estimate {
	est := s.correlation.Correlation(labelA, labelB, 0)
	s.evalLog.LogCorrelation(labelA, labelB, est.NSamples, est.Correlation, est.TrustLevel)
	return est
}

// EmpiricalCovariance returns the trust-shrunk covariance matrix for labels
func (s *TrustSystem) EmpiricalCovariance(labels []string, probabilities []float64) (*mat.SymDense, error) {
	start := time.Now()
	cov, err := s.correlation.CovarianceMatrix(labels, probabilities)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
	}
	metrics.RecordEvaluation(metrics.ComponentCorrelation, status, time.Since(start).Seconds())
	return cov, err
}

// CorrelationSummary describes the recorded outcome events
func (s *TrustSystem) CorrelationSummary() correlation.Summary {
	return s.correlation.Summary()
}

// ValidateEdge tests the recorded bets for a real edge
func (s *TrustSystem) ValidateEdge(ctx context.Context) (edge.Result, error) {
	start := time.Now()
	result, err := s.edge.Validate(ctx, edge.ValidateOptions{
		MinBets:             s.cfg.Edge.MinBets,
		SignificanceLevel:   s.cfg.Edge.SignificanceLevel,
		BootstrapIterations: s.cfg.Edge.BootstrapIterations,
		Workers:             s.cfg.Edge.Workers,
		Seed:                s.cfg.Edge.Seed,
	})
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordEvaluation(metrics.ComponentEdge, metrics.StatusFailure, elapsed.Seconds())
		return result, fmt.Errorf("edge validation failed: %w", err)
	}

	status := metrics.StatusSuccess
	if !result.Sufficient() {
		status = metrics.StatusInsufficient
	}
	metrics.RecordEvaluation(metrics.ComponentEdge, status, elapsed.Seconds())
	metrics.UpdateEdge(result.NBets, result.ROI, result.PValue, result.CLVMean)
	s.evalLog.LogEdge(result.NBets, result.ROI, result.PValue, result.CLVMean, result.HasEdge, elapsed)

	return result, nil
}

// RelationshipTrust scores the evidence behind an estimated relationship
func (s *TrustSystem) RelationshipTrust(in trust.RelationshipInput) trust.Assessment {
	a := trust.RelationshipTrust(in)
	metrics.UpdateTrustScore("relationship", a.Score)
	return a
}

// ProbabilityTrust scores how far model probabilities can be used
func (s *TrustSystem) ProbabilityTrust(ece float64, sampleSize, daysSinceTraining int) trust.Assessment {
	a := trust.ProbabilityTrust(ece, sampleSize, daysSinceTraining)
	metrics.UpdateTrustScore("probability", a.Score)
	return a
}
