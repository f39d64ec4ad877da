// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TimeToFirstToken = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_time_to_first_token_seconds",
			Help:    "Time to first token in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
		},
		[]string{"model"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_generation_duration_seconds",
			Help:    "Total time taken for one generation in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 15, 20, 30, 60, 120, 300, 600},
		},
		[]string{"model"},
	)

	PromptTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_prompt_tokens_total",
			Help: "Total number of prompt tokens used",
		},
		[]string{"model"},
	)

	CompletionTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_completion_tokens_total",
			Help: "Total number of completion tokens used",
		},
		[]string{"model"},
	)

	TokensPerSecond = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_tokens_per_second",
			Help:    "Tokens per second",
			Buckets: []float64{1, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 60, 70, 80},
		},
		[]string{"model"},
	)

	GenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_generation_count_total",
			Help: "Total number of generations processed",
		},
		[]string{"model", "status"},
	)

	CanceledGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_canceled_generations_total",
			Help: "Generations stopped by the user mid-stream",
		},
		[]string{"model"},
	)

	SentencesSynthesized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_sentences_synthesized_total",
			Help: "Sentences sent to the speech engine",
		},
		[]string{"voice"},
	)

	SynthesisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_synthesis_failures_total",
			Help: "Per-sentence speech synthesis failures",
		},
		[]string{"voice"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Currently connected WebSocket sessions",
		},
	)

	StoredAttachments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_stored_attachments",
			Help: "Attachments currently held in memory",
		},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
