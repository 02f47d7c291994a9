package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/betting-trust/internal/correlation"
	"github.com/yourusername/betting-trust/internal/edge"
)

var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Check whether predicted probabilities match observed frequencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := system.ValidateCalibration()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, result)
		}

		fmt.Fprintf(out, "Samples: %d (minimum %d)\n", result.NSamples, result.MinSamples)
		fmt.Fprintf(out, "ECE: %.4f  MCE: %.4f\n", result.ECE, result.MCE)
		fmt.Fprintf(out, "Brier: %.4f  Log loss: %.4f\n", result.BrierScore, result.LogLoss)
		fmt.Fprintf(out, "Level: %s\n", strings.ToUpper(result.Level.String()))
		for _, b := range result.Bins {
			fmt.Fprintf(out, "  [%.1f, %.1f) n=%-5d predicted=%.3f actual=%.3f gap=%.3f\n",
				b.RangeLow, b.RangeHigh, b.NSamples, b.MeanPredicted, b.MeanActual, b.CalibrationError)
		}
		fmt.Fprintf(out, "Recommendation: %s\n", result.Recommendation)
		return nil
	},
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Test recorded bets for a statistically significant edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := system.ValidateEdge(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprint(cmd.OutOrStdout(), edge.GenerateReport(result))
		return nil
	},
}

var correlationCmd = &cobra.Command{
	Use:   "correlation [LABEL_A LABEL_B]",
	Short: "Summarise recorded outcomes or estimate one pairwise correlation",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected zero or two labels, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 2 {
			est := system.EmpiricalCorrelation(args[0], args[1])
			if jsonOutput {
				return writeJSON(out, est)
			}
			writeEstimate(out, est)
			return nil
		}

		summary := system.CorrelationSummary()
		if jsonOutput {
			return writeJSON(out, summary)
		}
		fmt.Fprintf(out, "Status: %s\n", summary.Status)
		fmt.Fprintf(out, "Games Recorded: %d (minimum %d per pair)\n", summary.NEvents, summary.MinSamples)
		labels := make([]string, 0, len(summary.LabelCounts))
		for label := range summary.LabelCounts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(out, "  %s: %d\n", label, summary.LabelCounts[label])
		}
		return nil
	},
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Run every check and print the overall verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		verdict, report, err := system.SystemTrustWithReport(ctx)
		if err != nil {
			return err
		}
		if saveRun {
			run, err := system.SaveRun(ctx, repos.EvaluationRun, verdict)
			if err != nil {
				return err
			}
			logger.WithField("run_id", run.ID).Info("Saved evaluation run")
		}

		if jsonOutput {
			return writeJSON(out, verdict)
		}
		fmt.Fprint(out, report)
		return nil
	},
}

func writeEstimate(out io.Writer, est correlation.Estimate) {
	fmt.Fprintf(out, "%s ~ %s\n", est.LabelA, est.LabelB)
	fmt.Fprintf(out, "Samples: %d\n", est.NSamples)
	fmt.Fprintf(out, "Correlation: %.4f [%.4f, %.4f]\n", est.Correlation, est.CILow, est.CIHigh)
	fmt.Fprintf(out, "P-Value: %.4f  Significant: %v\n", est.PValue, est.IsSignificant)
	fmt.Fprintf(out, "Trust Level: %.2f\n", est.TrustLevel)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
