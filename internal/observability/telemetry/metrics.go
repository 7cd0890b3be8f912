package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dialogue metrics
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretary_turns_total",
		Help: "Messages processed by the dialogue orchestrator",
	}, []string{"intent", "outcome"})

	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "secretary_turn_duration_seconds",
		Help:    "End-to-end latency of one dialogue turn",
		Buckets: prometheus.DefBuckets,
	})

	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretary_actions_total",
		Help: "Downstream actions executed",
	}, []string{"intent", "status"})

	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretary_classifications_total",
		Help: "Intent classifications by source",
	}, []string{"source", "intent"})

	// Session store metrics
	PendingSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "secretary_pending_sessions",
		Help: "Live pending sessions observed by the last sweep",
	})

	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretary_sessions_swept_total",
		Help: "Expired pending sessions removed by the sweeper",
	})

	SessionStoreFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretary_session_store_fallbacks_total",
		Help: "Session store operations served by the in-memory fallback",
	}, []string{"op"})

	// LLM metrics
	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secretary_llm_requests_total",
		Help: "Completion requests sent to the LLM provider",
	}, []string{"status"})

	LLMLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "secretary_llm_latency_seconds",
		Help:    "Latency of LLM completion requests",
		Buckets: prometheus.DefBuckets,
	})
)
