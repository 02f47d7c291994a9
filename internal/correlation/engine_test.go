package correlation

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betting-trust/internal/models"
)

func recordPairs(e *Engine, a, b string, pairs [][2]bool) {
	for i, p := range pairs {
		e.RecordEvent(fmt.Sprintf("game-%d", i), map[string]bool{a: p[0], b: p[1]}, time.Time{})
	}
}

func identicalPairs(n int) [][2]bool {
	out := make([][2]bool, n)
	for i := range out {
		v := i%3 == 0
		out[i] = [2]bool{v, v}
	}
	return out
}

// halfCorrelated returns 40 pairs with Pearson r exactly 0.5.
func halfCorrelated() [][2]bool {
	var out [][2]bool
	add := func(a, b bool, n int) {
		for i := 0; i < n; i++ {
			out = append(out, [2]bool{a, b})
		}
	}
	add(true, true, 15)
	add(true, false, 5)
	add(false, true, 5)
	add(false, false, 15)
	return out
}

func TestCorrelationIdenticalSeries(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "home_ml", "home_spread", identicalPairs(200))

	est := e.Correlation("home_ml", "home_spread", 0)

	assert.InDelta(t, 1.0, est.Correlation, 1e-9)
	assert.Less(t, est.PValue, 0.05)
	assert.True(t, est.IsSignificant)
	assert.Equal(t, 200, est.NSamples)
	assert.Equal(t, 0.85, est.TrustLevel)
	assert.InDelta(t, 0.0, est.StdErr, 1e-6)
}

func TestCorrelationTrustSteps(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(500))

	assert.Equal(t, 0.95, e.Correlation("a", "b", 0).TrustLevel)
}

func TestCorrelationInsufficientSamples(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(49))

	est := e.Correlation("a", "b", 0)

	assert.Equal(t, 0.0, est.Correlation)
	assert.Equal(t, 0.0, est.TrustLevel)
	assert.Equal(t, -1.0, est.CILow)
	assert.Equal(t, 1.0, est.CIHigh)
	assert.Equal(t, 1.0, est.PValue)
	assert.Equal(t, 49, est.NSamples)
}

func TestCorrelationInnerJoinsOnPresence(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(60))
	for i := 0; i < 100; i++ {
		e.RecordEvent(fmt.Sprintf("only-a-%d", i), map[string]bool{"a": i%2 == 0}, time.Time{})
	}

	est := e.Correlation("a", "b", 0)
	assert.Equal(t, 60, est.NSamples)
}

func TestCorrelationZeroVariance(t *testing.T) {
	e := NewEngine()
	pairs := make([][2]bool, 80)
	for i := range pairs {
		pairs[i] = [2]bool{true, i%2 == 0}
	}
	recordPairs(e, "a", "b", pairs)

	est := e.Correlation("a", "b", 0)

	assert.Equal(t, 0.0, est.Correlation)
	assert.Equal(t, 0.3, est.TrustLevel)
	assert.Equal(t, 0.5, est.StdErr)
	assert.Equal(t, -0.5, est.CILow)
	assert.Equal(t, 0.5, est.CIHigh)
}

func TestCorrelationCacheInvalidatedOnRecord(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(60))

	first := e.Correlation("a", "b", 0)
	again := e.Correlation("b", "a", 0)
	hits, misses := e.CacheStats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, first.Correlation, again.Correlation)
	assert.Equal(t, "b", again.LabelA)

	e.RecordEvent("late", map[string]bool{"a": true, "b": false}, time.Time{})

	updated := e.Correlation("a", "b", 0)
	assert.Equal(t, 61, updated.NSamples)
	assert.Less(t, updated.Correlation, first.Correlation)
}

func TestRecordEventCopiesOutcomes(t *testing.T) {
	e := NewEngine()
	outcomes := map[string]bool{"a": true}
	rec := e.RecordEvent("g1", outcomes, time.Time{})
	outcomes["a"] = false
	outcomes["b"] = true

	assert.True(t, rec.Outcomes["a"])
	assert.Len(t, rec.Outcomes, 1)
	assert.False(t, rec.RecordedAt.IsZero())
}

func TestCorrelationMatrix(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 120; i++ {
		v := i%2 == 0
		e.RecordEvent(fmt.Sprintf("g%d", i), map[string]bool{"x": v, "y": v, "z": !v}, time.Time{})
	}

	corr, trust, err := e.CorrelationMatrix([]string{"x", "y", "z"})
	require.NoError(t, err)

	r, c := corr.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, corr.At(i, i))
		assert.Equal(t, 1.0, trust.At(i, i))
	}
	assert.InDelta(t, 1.0, corr.At(0, 1), 1e-9)
	assert.InDelta(t, -1.0, corr.At(0, 2), 1e-9)
	assert.Equal(t, corr.At(0, 2), corr.At(2, 0))
	assert.Equal(t, 0.70, trust.At(1, 2))

	_, misses := e.CacheStats()
	assert.Equal(t, uint64(3), misses)

	_, _, err = e.CorrelationMatrix(nil)
	assert.ErrorIs(t, err, models.ErrNoLabels)
}

func TestCovarianceMatrixShrinksByTrust(t *testing.T) {
	e := NewEngine(WithMinSamples(20))
	recordPairs(e, "over", "home_ml", halfCorrelated())

	est := e.Correlation("over", "home_ml", 0)
	require.InDelta(t, 0.5, est.Correlation, 1e-9)
	require.Equal(t, 0.3, est.TrustLevel)

	cov, err := e.CovarianceMatrix([]string{"over", "home_ml"}, []float64{0.5, 0.4})
	require.NoError(t, err)

	varI, varJ := 0.25, 0.24
	assert.InDelta(t, varI, cov.At(0, 0), 1e-12)
	assert.InDelta(t, varJ, cov.At(1, 1), 1e-12)
	assert.InDelta(t, 0.3*0.5*math.Sqrt(varI*varJ), cov.At(0, 1), 1e-9)
	assert.NotEqual(t, 0.5*math.Sqrt(varI*varJ), cov.At(0, 1))
}

func TestCovarianceMatrixShapeMismatch(t *testing.T) {
	e := NewEngine()
	_, err := e.CovarianceMatrix([]string{"a", "b"}, []float64{0.5})
	assert.ErrorIs(t, err, models.ErrShapeMismatch)
}

func TestSummary(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, StatusNoData, e.Summary().Status)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	e.RecordEvent("g2", map[string]bool{"a": true, "b": false}, day.AddDate(0, 0, 5))
	e.RecordEvent("g1", map[string]bool{"a": false}, day)

	s := e.Summary()
	assert.Equal(t, StatusReady, s.Status)
	assert.Equal(t, 2, s.NEvents)
	assert.Equal(t, day, s.FirstEvent)
	assert.Equal(t, day.AddDate(0, 0, 5), s.LastEvent)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, s.LabelCounts)
	assert.Equal(t, []string{"a", "b"}, e.Labels())
}

func TestConcurrentRecordAndRead(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(60))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.RecordEvent(fmt.Sprintf("w%d-%d", w, i), map[string]bool{"a": i%2 == 0, "b": i%2 == 0}, time.Time{})
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				est := e.Correlation("a", "b", 0)
				assert.GreaterOrEqual(t, est.NSamples, 60)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 260, e.Correlation("a", "b", 0).NSamples)
}

func TestEstimateMapRoundTrip(t *testing.T) {
	e := NewEngine()
	recordPairs(e, "a", "b", identicalPairs(120))
	est := e.Correlation("a", "b", 0)

	m, err := est.ToMap()
	require.NoError(t, err)
	back, err := FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, est, back)
}
