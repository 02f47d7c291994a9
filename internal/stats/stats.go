// Package stats holds the numeric kernels shared by the evaluation engines.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// LogLossEpsilon bounds probabilities away from 0 and 1 before taking logs.
	LogLossEpsilon = 1e-15

	// Z95 is the two-sided 95% normal quantile.
	Z95 = 1.96
)

// TTestResult is the outcome of a one-sample t-test against zero.
type TTestResult struct {
	Mean   float64
	StdDev float64
	T      float64
	PValue float64
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// StdDev returns the population standard deviation, or 0 for fewer than two values.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.PopStdDev(x, nil)
}

// IsConstant reports whether every value in x is identical.
func IsConstant(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// BrierScore is the mean squared error between predictions and 0/1 outcomes.
func BrierScore(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	var sum float64
	for i, p := range predicted {
		d := p - actual[i]
		sum += d * d
	}
	return sum / float64(len(predicted))
}

// LogLoss is the mean negative log-likelihood with clipped probabilities.
func LogLoss(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	var sum float64
	for i, p := range predicted {
		p = Clip(p, LogLossEpsilon, 1-LogLossEpsilon)
		sum += actual[i]*math.Log(p) + (1-actual[i])*math.Log(1-p)
	}
	return -sum / float64(len(predicted))
}

// WaldInterval returns the 95% normal-approximation interval for a
// frequency observed over n trials, clipped to [0, 1].
func WaldInterval(freq float64, n int) (float64, float64) {
	if n <= 0 {
		return 0, 1
	}
	half := Z95 * math.Sqrt(freq*(1-freq)/float64(n))
	return Clip(freq-half, 0, 1), Clip(freq+half, 0, 1)
}

// OneSampleTTest tests whether the mean of x differs from zero (two-sided).
func OneSampleTTest(x []float64) TTestResult {
	n := len(x)
	if n < 2 {
		return TTestResult{Mean: Mean(x), PValue: 1}
	}

	mean, sd := stat.MeanStdDev(x, nil)
	res := TTestResult{Mean: mean, StdDev: sd}
	if sd == 0 || math.IsNaN(sd) {
		if mean == 0 {
			res.PValue = 1
		} else {
			res.T = math.Copysign(math.Inf(1), mean)
			res.PValue = 0
		}
		return res
	}

	res.T = mean / (sd / math.Sqrt(float64(n)))
	res.PValue = twoSidedT(res.T, float64(n-1))
	return res
}

// Pearson returns the correlation coefficient of x and y and its two-sided p-value.
// Callers must ensure len(x) == len(y) > 2 and neither series is constant.
func Pearson(x, y []float64) (float64, float64) {
	r := Clip(stat.Correlation(x, y, nil), -1, 1)
	df := float64(len(x) - 2)
	denom := 1 - r*r
	if denom <= 0 {
		return r, 0
	}
	t := r * math.Sqrt(df/denom)
	return r, twoSidedT(t, df)
}

// FisherInterval returns the 95% interval for r using the Fisher z-transform.
func FisherInterval(r float64, n int) (float64, float64) {
	if n <= 3 {
		return -1, 1
	}
	z := math.Atanh(Clip(r, -1, 1))
	half := Z95 / math.Sqrt(float64(n-3))
	return math.Tanh(z - half), math.Tanh(z + half)
}

// CorrelationStdErr is sqrt((1-r^2)/(n-2)).
func CorrelationStdErr(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	return math.Sqrt(math.Max(0, 1-r*r) / float64(n-2))
}

// BernoulliVariance is p(1-p).
func BernoulliVariance(p float64) float64 {
	return p * (1 - p)
}

// HalfLifeDecay returns 0.5^(age/halfLife).
func HalfLifeDecay(age, halfLife float64) float64 {
	return math.Pow(0.5, age/halfLife)
}

// Percentile returns the q-th percentile (0-100) using linear interpolation
// between closest ranks. values is not modified.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := Clip(q, 0, 100) / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func twoSidedT(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return Clip(2*dist.CDF(-math.Abs(t)), 0, 1)
}
