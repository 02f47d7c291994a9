package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/betting-trust/internal/calibration"
	"github.com/yourusername/betting-trust/internal/correlation"
	"github.com/yourusername/betting-trust/internal/edge"
	"github.com/yourusername/betting-trust/internal/metrics"
	"github.com/yourusername/betting-trust/internal/models"
)

const trustworthyRecommendation = "System is trustworthy for betting"

// CalibrationStatus is the calibration part of a system verdict
type CalibrationStatus struct {
	ECE          float64           `json:"ece"`
	IsCalibrated bool              `json:"is_calibrated"`
	Level        calibration.Level `json:"level"`
}

// EdgeStatus is the edge part of a system verdict
type EdgeStatus struct {
	HasEdge bool    `json:"has_edge"`
	ROI     float64 `json:"roi"`
	PValue  float64 `json:"p_value"`
	CLV     float64 `json:"clv"`
}

// CorrelationStatus is the correlation part of a system verdict
type CorrelationStatus struct {
	NEvents            int  `json:"n_events"`
	EmpiricalAvailable bool `json:"empirical_available"`
}

// SystemTrust is the aggregated verdict over all engines
type SystemTrust struct {
	IsTrustworthy  bool              `json:"is_trustworthy"`
	Calibration    CalibrationStatus `json:"calibration"`
	Edge           EdgeStatus        `json:"edge"`
	Correlations   CorrelationStatus `json:"correlations"`
	Issues         []string          `json:"issues"`
	Recommendation string            `json:"recommendation"`
}

// ToMap converts the verdict into a plain map.
func (t SystemTrust) ToMap() (map[string]any, error) {
	return models.ToMap(t)
}

// SystemTrustFromMap rebuilds a verdict from a plain map.
func SystemTrustFromMap(m map[string]any) (SystemTrust, error) {
	return models.FromMap[SystemTrust](m)
}

// evaluation holds the component results behind a system verdict
type evaluation struct {
	calibration calibration.Result
	edge        edge.Result
	summary     correlation.Summary
	verdict     SystemTrust
}

// SystemTrust runs every check and reports all failing ones together. If the
// edge validation fails the partial verdict is returned with the error.
func (s *TrustSystem) SystemTrust(ctx context.Context) (SystemTrust, error) {
	ev, err := s.evaluate(ctx)
	return ev.verdict, err
}

// SystemTrustWithReport returns the verdict and the full text report of a
// single evaluation.
func (s *TrustSystem) SystemTrustWithReport(ctx context.Context) (SystemTrust, string, error) {
	ev, err := s.evaluate(ctx)
	if err != nil {
		return ev.verdict, "", err
	}
	return ev.verdict, renderReport(ev), nil
}

func (s *TrustSystem) evaluate(ctx context.Context) (evaluation, error) {
	start := time.Now()

	cal := s.ValidateCalibration()
	edgeResult, edgeErr := s.ValidateEdge(ctx)
	summary := s.correlation.Summary()

	issues := []string{}
	if !cal.IsTrustworthy {
		issues = append(issues, "Calibration: "+cal.Recommendation)
	}
	switch {
	case edgeErr != nil:
		issues = append(issues, "Edge: "+edgeErr.Error())
	case !edgeResult.HasEdge:
		issues = append(issues, "Edge: "+edgeResult.Recommendation)
	}
	if summary.NEvents < s.cfg.System.MinCorrelationEvents {
		issues = append(issues, fmt.Sprintf("Correlations: Only %d games for correlation estimation", summary.NEvents))
	}

	verdict := SystemTrust{
		IsTrustworthy: len(issues) == 0,
		Calibration: CalibrationStatus{
			ECE:          cal.ECE,
			IsCalibrated: cal.IsTrustworthy,
			Level:        cal.Level,
		},
		Edge: EdgeStatus{
			HasEdge: edgeResult.HasEdge,
			ROI:     edgeResult.ROI,
			PValue:  edgeResult.PValue,
			CLV:     edgeResult.CLVMean,
		},
		Correlations: CorrelationStatus{
			NEvents:            summary.NEvents,
			EmpiricalAvailable: summary.NEvents >= s.cfg.Correlation.MinSamples,
		},
		Issues:         issues,
		Recommendation: systemRecommendation(issues),
	}

	ev := evaluation{
		calibration: cal,
		edge:        edgeResult,
		summary:     summary,
		verdict:     verdict,
	}
	if edgeErr != nil {
		metrics.RecordEvaluation(metrics.ComponentSystem, metrics.StatusFailure, time.Since(start).Seconds())
		return ev, edgeErr
	}

	metrics.RecordEvaluation(metrics.ComponentSystem, metrics.StatusSuccess, time.Since(start).Seconds())
	metrics.UpdateSystem(verdict.IsTrustworthy, len(issues))
	s.evalLog.LogSystemTrust(verdict.IsTrustworthy, issues)

	return ev, nil
}

func systemRecommendation(issues []string) string {
	if len(issues) == 0 {
		return trustworthyRecommendation
	}
	return fmt.Sprintf("Fix %d issues before betting: %s", len(issues), strings.Join(issues, "; "))
}
