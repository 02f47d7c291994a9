package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordEvaluation(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues(ComponentEdge, StatusSuccess))
	RecordEvaluation(ComponentEdge, StatusSuccess, 0.25)
	after := testutil.ToFloat64(EvaluationsTotal.WithLabelValues(ComponentEdge, StatusSuccess))

	assert.Equal(t, before+1, after)
}

func TestRecordLoaded(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(RecordsLoadedTotal.WithLabelValues("predictions"))
	RecordLoaded("predictions", 250)
	assert.Equal(t, before+250, testutil.ToFloat64(RecordsLoadedTotal.WithLabelValues("predictions")))

	RecordRejectedRow("predictions.csv")
	assert.GreaterOrEqual(t, testutil.ToFloat64(RowsRejectedTotal.WithLabelValues("predictions.csv")), 1.0)
}

func TestUpdateGauges(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		update func()
		gauge  prometheus.Collector
		want   float64
	}{
		{
			name:   "calibration ece",
			update: func() { UpdateCalibration(500, 0.03, 0.08) },
			gauge:  CalibrationECE,
			want:   0.03,
		},
		{
			name:   "edge roi",
			update: func() { UpdateEdge(250, 0.12, 0.0577, 0.02) },
			gauge:  EdgeROI,
			want:   0.12,
		},
		{
			name:   "correlation events",
			update: func() { UpdateCorrelationEvents(120) },
			gauge:  CorrelationEvents,
			want:   120,
		},
		{
			name:   "system trustworthy",
			update: func() { UpdateSystem(true, 0) },
			gauge:  SystemTrustworthy,
			want:   1,
		},
		{
			name:   "system untrustworthy",
			update: func() { UpdateSystem(false, 2) },
			gauge:  SystemTrustworthy,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.update()
			assert.Equal(t, tt.want, testutil.ToFloat64(tt.gauge))
		})
	}
}

func TestUpdateTrustScore(t *testing.T) {
	InitRegistry()

	UpdateTrustScore("relationship", 0.815)
	assert.Equal(t, 0.815, testutil.ToFloat64(TrustScore.WithLabelValues("relationship")))
}

func TestPush(t *testing.T) {
	InitRegistry()
	RecordEvaluation(ComponentSystem, StatusSuccess, 0.01)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := Push(context.Background(), server.URL, "trust_eval")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, "/metrics/job/trust_eval"))
}

func TestPushEmptyURL(t *testing.T) {
	err := Push(context.Background(), "", "trust_eval")
	assert.Error(t, err)
}

func BenchmarkRecordEvaluation(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordEvaluation(ComponentCalibration, StatusSuccess, 0.001)
	}
}
