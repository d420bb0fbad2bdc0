package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	ConsultationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arogya_consultations_total",
		Help: "Consultations by outcome (completed, save_failed, advice_failed)",
	}, []string{"outcome"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arogya_active_sessions",
		Help: "Number of intake conversations currently in flight",
	})

	VoiceTranscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arogya_voice_transcriptions_total",
		Help: "Voice transcriptions by result (ok, too_short, error)",
	}, []string{"result"})

	VoiceSynthesesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arogya_voice_syntheses_total",
		Help: "Voice syntheses by result (ok, error)",
	}, []string{"result"})

	AdviceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arogya_advice_latency_seconds",
		Help:    "Latency of advice generation including fallback path",
		Buckets: prometheus.DefBuckets,
	})

	AdviceFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arogya_advice_fallbacks_total",
		Help: "Advice requests answered with the static fallback text",
	})

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arogya_store_latency_seconds",
		Help:    "Latency of consultation store appends",
		Buckets: prometheus.DefBuckets,
	})
)
