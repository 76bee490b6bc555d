// Package metrics defines the Prometheus metrics of the sponsor finder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_evaluations_total",
			Help: "Total number of sponsor evaluation runs by outcome",
		},
		[]string{"outcome"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_evaluation_failures_total",
			Help: "Total number of failed evaluation runs by error kind",
		},
		[]string{"kind"},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_agent_actions_total",
			Help: "Total number of controller actions chosen, after overrides",
		},
		[]string{"action", "overridden"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sponsor_agent_tool_duration_seconds",
			Help:    "Duration of tool calls dispatched by the controller",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool", "status"},
	)

	DecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sponsor_agent_decision_duration_seconds",
			Help:    "Latency of the LLM controller decision",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_business_cache_lookups_total",
			Help: "Business info cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// ObserveTool records the duration of a tool call started at start.
func ObserveTool(tool string, start time.Time, err error) {
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeFailure
	}
	ToolDuration.WithLabelValues(tool, status).Observe(time.Since(start).Seconds())
}
