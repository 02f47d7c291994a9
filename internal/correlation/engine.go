// Package correlation estimates empirical outcome correlations between betting markets.
package correlation

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/yourusername/betting-trust/internal/models"
	"github.com/yourusername/betting-trust/internal/stats"
)

// DefaultMinSamples is the paired-sample floor used when none is given.
const DefaultMinSamples = 50

const significanceLevel = 0.05

// Engine accumulates per-event outcomes and estimates pairwise correlations.
// The event log and the pair cache are guarded together by mu.
type Engine struct {
	mu     sync.Mutex
	events []models.GameOutcomeRecord
	pairs  *cache.Cache
	dirty  bool
	hits   uint64
	misses uint64

	minSamples int
	logger     *logrus.Logger
	now        func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithMinSamples sets the paired-sample floor used by the matrix builders and
// by Correlation calls that pass no explicit floor.
func WithMinSamples(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minSamples = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an empty correlation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		pairs:      cache.New(cache.NoExpiration, 0),
		minSamples: DefaultMinSamples,
		now:        time.Now,
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

// RecordEvent appends an event's outcomes and invalidates cached estimates.
// A zero eventDate records the current time.
func (e *Engine) RecordEvent(eventID string, outcomes map[string]bool, eventDate time.Time) models.GameOutcomeRecord {
	if eventDate.IsZero() {
		eventDate = e.now()
	}
	copied := make(map[string]bool, len(outcomes))
	for label, won := range outcomes {
		copied[label] = won
	}
	rec := models.GameOutcomeRecord{EventID: eventID, RecordedAt: eventDate, Outcomes: copied}

	e.mu.Lock()
	e.events = append(e.events, rec)
	e.dirty = true
	e.mu.Unlock()

	return rec
}

// Len returns the number of recorded events.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

// Correlation estimates the correlation between two labels over events where
// both were recorded. minSamples <= 0 uses the engine's floor.
func (e *Engine) Correlation(labelA, labelB string, minSamples int) Estimate {
	e.mu.Lock()
	defer e.mu.Unlock()

	if minSamples <= 0 {
		minSamples = e.minSamples
	}
	return e.correlationLocked(labelA, labelB, minSamples)
}

func (e *Engine) correlationLocked(labelA, labelB string, minSamples int) Estimate {
	if e.dirty {
		e.pairs.Flush()
		e.dirty = false
	}

	key := pairKey(labelA, labelB, minSamples)
	if cached, found := e.pairs.Get(key); found {
		if est, ok := cached.(Estimate); ok {
			e.hits++
			return orient(est, labelA, labelB)
		}
	}
	e.misses++

	est := e.estimate(labelA, labelB, minSamples)
	e.pairs.Set(key, est, cache.NoExpiration)
	return est
}

func (e *Engine) estimate(labelA, labelB string, minSamples int) Estimate {
	var xs, ys []float64
	for _, ev := range e.events {
		a, okA := ev.Lookup(labelA)
		b, okB := ev.Lookup(labelB)
		if okA && okB {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	n := len(xs)

	est := Estimate{LabelA: labelA, LabelB: labelB, NSamples: n}

	switch {
	case n < minSamples:
		est.StdErr = 1
		est.CILow, est.CIHigh = -1, 1
		est.PValue = 1
		est.TrustLevel = 0
	case stats.IsConstant(xs) || stats.IsConstant(ys):
		est.StdErr = 0.5
		est.CILow, est.CIHigh = -0.5, 0.5
		est.PValue = 1
		est.TrustLevel = 0.3
	default:
		r, p := stats.Pearson(xs, ys)
		est.Correlation = r
		est.PValue = p
		est.StdErr = stats.CorrelationStdErr(r, n)
		est.CILow, est.CIHigh = stats.FisherInterval(r, n)
		est.IsSignificant = p < significanceLevel
		est.TrustLevel = trustLevel(n, est.IsSignificant)
	}

	e.logger.WithFields(logrus.Fields{
		"label_a":     labelA,
		"label_b":     labelB,
		"n_samples":   n,
		"correlation": est.Correlation,
		"trust_level": est.TrustLevel,
	}).Debug("Correlation estimated")

	return est
}

func trustLevel(n int, significant bool) float64 {
	switch {
	case n >= 500 && significant:
		return 0.95
	case n >= 200 && significant:
		return 0.85
	case n >= 100 && significant:
		return 0.70
	case n >= 50:
		return 0.50
	default:
		return 0.30
	}
}

// CorrelationMatrix returns the symmetric correlation and trust matrices for
// labels, with ones on both diagonals.
func (e *Engine) CorrelationMatrix(labels []string) (*mat.SymDense, *mat.SymDense, error) {
	if len(labels) == 0 {
		return nil, nil, models.ErrNoLabels
	}

	n := len(labels)
	corr := mat.NewSymDense(n, nil)
	trust := mat.NewSymDense(n, nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		trust.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			est := e.correlationLocked(labels[i], labels[j], e.minSamples)
			corr.SetSym(i, j, est.Correlation)
			trust.SetSym(i, j, est.TrustLevel)
		}
	}
	return corr, trust, nil
}

// CovarianceMatrix builds a Bernoulli covariance matrix for labels with the
// given marginal probabilities. Off-diagonal terms are shrunk toward zero by
// the trust level of each estimated correlation.
func (e *Engine) CovarianceMatrix(labels []string, probabilities []float64) (*mat.SymDense, error) {
	if len(labels) != len(probabilities) {
		return nil, fmt.Errorf("%w: %d labels, %d probabilities", models.ErrShapeMismatch, len(labels), len(probabilities))
	}
	corr, trust, err := e.CorrelationMatrix(labels)
	if err != nil {
		return nil, err
	}

	n := len(labels)
	variances := make([]float64, n)
	for i, p := range probabilities {
		variances[i] = stats.BernoulliVariance(p)
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, variances[i])
		for j := i + 1; j < n; j++ {
			shrunk := trust.At(i, j) * corr.At(i, j)
			cov.SetSym(i, j, shrunk*math.Sqrt(variances[i]*variances[j]))
		}
	}
	return cov, nil
}

// Summary describes the recorded event log.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{
		NEvents:     len(e.events),
		LabelCounts: make(map[string]int),
		MinSamples:  e.minSamples,
	}
	if len(e.events) == 0 {
		s.Status = StatusNoData
		return s
	}

	s.Status = StatusReady
	first, last := e.events[0].RecordedAt, e.events[0].RecordedAt
	for _, ev := range e.events {
		if ev.RecordedAt.Before(first) {
			first = ev.RecordedAt
		}
		if ev.RecordedAt.After(last) {
			last = ev.RecordedAt
		}
		for label := range ev.Outcomes {
			s.LabelCounts[label]++
		}
	}
	s.FirstEvent, s.LastEvent = first, last
	return s
}

// CacheStats returns pair cache hits and misses.
func (e *Engine) CacheStats() (hits, misses uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits, e.misses
}

// Labels returns every label seen, sorted.
func (e *Engine) Labels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]struct{})
	for _, ev := range e.events {
		for label := range ev.Outcomes {
			seen[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func pairKey(a, b string, minSamples int) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s\x00%s\x00%d", a, b, minSamples)
}

// orient relabels a cached estimate to match the caller's argument order.
func orient(est Estimate, labelA, labelB string) Estimate {
	if est.LabelA == labelA {
		return est
	}
	est.LabelA, est.LabelB = labelA, labelB
	return est
}
