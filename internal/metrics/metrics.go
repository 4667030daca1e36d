// Package metrics exposes the simulator's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	OperationTurn      = "turn"
	OperationAnalytics = "analytics"
)

type Recorder struct {
	turnsTotal      *prometheus.CounterVec
	reportsTotal    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	promptTokens    *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

// NewRecorder registers all instruments on reg. Each registry accepts one Recorder.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_turns_total",
				Help: "Interview turns answered by the language model, by outcome",
			},
			[]string{"outcome"},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_reports_total",
				Help: "Interview reports generated and delivered, by outcome",
			},
			[]string{"outcome"},
		),
		gatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Duration of language model requests in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
			},
			[]string{"operation", "provider", "outcome"},
		),
		promptTokens: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_prompt_tokens",
				Help:    "Prompt size in tokens per language model request",
				Buckets: prometheus.ExponentialBuckets(256, 2, 10),
			},
			[]string{"operation"},
		),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "interview_sessions_tracked",
			Help: "Conversations currently held in memory",
		}),
	}
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

func (r *Recorder) ObserveTurn(success bool) {
	r.turnsTotal.WithLabelValues(outcome(success)).Inc()
}

func (r *Recorder) ObserveReport(success bool) {
	r.reportsTotal.WithLabelValues(outcome(success)).Inc()
}

func (r *Recorder) ObserveRequest(operation, provider string, success bool, d time.Duration) {
	r.gatewayDuration.WithLabelValues(operation, provider, outcome(success)).Observe(d.Seconds())
}

func (r *Recorder) ObservePromptTokens(operation string, tokens int) {
	r.promptTokens.WithLabelValues(operation).Observe(float64(tokens))
}

func (r *Recorder) SetSessions(n int) {
	r.sessions.Set(float64(n))
}
