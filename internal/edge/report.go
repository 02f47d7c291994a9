package edge

import (
	"fmt"
	"strings"
)

const reportRule = "================================================================================"

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// GenerateReport formats a validation result for terminal output.
func GenerateReport(r Result) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("                    EDGE VALIDATION REPORT\n")
	b.WriteString(reportRule + "\n\n")

	b.WriteString("SAMPLE SIZE\n-----------\n")
	b.WriteString(fmt.Sprintf("Total Bets: %d\n", r.NBets))
	b.WriteString(fmt.Sprintf("Minimum Required: %d\n", r.MinBets))
	if r.Sufficient() {
		b.WriteString("Status: Sufficient\n\n")
	} else {
		b.WriteString("Status: Insufficient\n\n")
	}

	b.WriteString("PROFITABILITY\n-------------\n")
	b.WriteString(fmt.Sprintf("ROI: %.2f%%\n", r.ROI*100))
	b.WriteString(fmt.Sprintf("Total Profit: %s / Staked: %s\n", r.TotalProfit.StringFixed(2), r.TotalStaked.StringFixed(2)))
	b.WriteString(fmt.Sprintf("95%% CI: [%.2f%%, %.2f%%]\n", r.EdgeCILow*100, r.EdgeCIHigh*100))
	b.WriteString(fmt.Sprintf("P-Value: %.4f\n", r.PValue))
	b.WriteString(fmt.Sprintf("Statistically Significant: %s\n\n", yesNo(r.Sufficient() && r.PValue < r.SignificanceLevel)))

	b.WriteString("CLOSING LINE VALUE\n------------------\n")
	b.WriteString(fmt.Sprintf("Mean CLV: %.3f (%.1f cents) over %d bets\n", r.CLVMean, r.CLVMean*100, r.NCLVBets))
	if r.CLVMean > minCLVEdge {
		b.WriteString("Interpretation: Beating the market\n\n")
	} else {
		b.WriteString("Interpretation: Not consistently beating market\n\n")
	}

	base := BaselineComparison{}
	if r.Baseline != nil {
		base = *r.Baseline
	}
	b.WriteString("VS BASELINE (MARKET ODDS)\n-------------------------\n")
	b.WriteString(fmt.Sprintf("Model Accuracy: %.1f%%\n", base.ModelAccuracy*100))
	b.WriteString(fmt.Sprintf("Market Accuracy: %.1f%%\n", base.MarketAccuracy*100))
	b.WriteString(fmt.Sprintf("Model Log Loss: %.4f\n", base.ModelLogLoss))
	b.WriteString(fmt.Sprintf("Market Log Loss: %.4f\n", base.MarketLogLoss))
	b.WriteString(fmt.Sprintf("Model Better: %s\n\n", yesNo(base.ModelIsBetter)))

	b.WriteString("CONCLUSION\n----------\n")
	b.WriteString(fmt.Sprintf("Has Edge: %s\n", yesNo(r.HasEdge)))
	b.WriteString(fmt.Sprintf("Confidence: %.0f%%\n\n", r.ConfidenceLevel*100))

	b.WriteString("RECOMMENDATION\n--------------\n")
	b.WriteString(r.Recommendation + "\n\n")
	b.WriteString(reportRule + "\n")

	return b.String()
}
