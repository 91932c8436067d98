package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegistry_HTTPMetrics(t *testing.T) {
	reg := NewRegistry()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	// Should have go runtime metrics at minimum
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordSignal(t *testing.T) {
	reg := NewRegistry()

	reg.RecordSignal("quant", "buy", "Bull")
	reg.RecordSignal("quant", "buy", "Bull")
	reg.RecordSignal("meanrev", "hold", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.signalsGenerated.WithLabelValues("quant", "buy", "Bull")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.signalsGenerated.WithLabelValues("meanrev", "hold", "none")))
}

func TestRegistry_RecordSentiment(t *testing.T) {
	reg := NewRegistry()

	reg.RecordSentiment("keyword", nil)
	reg.RecordSentiment("llm:claude", errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.sentimentOutcomes.WithLabelValues("keyword", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.sentimentOutcomes.WithLabelValues("llm:claude", "error")))
}

func TestRegistry_RecordNotification(t *testing.T) {
	reg := NewRegistry()

	reg.RecordNotification("webhook", nil)
	reg.RecordNotification("webhook", nil)
	reg.RecordNotification("telegram", errors.New("401"))

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.notifications.WithLabelValues("webhook", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.notifications.WithLabelValues("telegram", "error")))
}

func TestRegistry_EngineCounters(t *testing.T) {
	reg := NewRegistry()

	reg.RecordBacktest("ok")
	reg.RecordEvaluationFailure("history")
	reg.RecordEvaluation(0.2)
	reg.RecordAnalysisCycle(3)
	reg.SetWatchlistSize(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.backtestsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.evaluationErrors.WithLabelValues("history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.analysisCycles))
	assert.Equal(t, 7.0, testutil.ToFloat64(reg.watchlistSymbols))

	n, err := testutil.GatherAndCount(reg, "tradebot_evaluation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStatusToString(t *testing.T) {
	tests := map[int]string{101: "1xx", 200: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"}
	for code, want := range tests {
		assert.Equal(t, want, statusToString(code))
	}
}
