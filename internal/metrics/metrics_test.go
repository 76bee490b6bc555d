package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := h.(prometheus.Metric)
	require.True(t, ok)
	var m dto.Metric
	require.NoError(t, metric.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestObserveTool(t *testing.T) {
	ObserveTool("metrics_test", time.Now(), nil)
	ObserveTool("metrics_test", time.Now(), errors.New("boom"))
	ObserveTool("metrics_test", time.Now(), errors.New("boom"))

	assert.Equal(t, uint64(1), histogramCount(t, ToolDuration.WithLabelValues("metrics_test", OutcomeSuccess)))
	assert.Equal(t, uint64(2), histogramCount(t, ToolDuration.WithLabelValues("metrics_test", OutcomeFailure)))
}

func TestEvaluationsTotal(t *testing.T) {
	counter := EvaluationsTotal.WithLabelValues(OutcomeSuccess)
	before := counterValue(t, counter)

	counter.Inc()

	assert.Equal(t, before+1, counterValue(t, counter))
}
