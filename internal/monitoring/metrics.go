package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	TurnsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns processed by outcome",
		},
		[]string{"outcome"},
	)
	RenderAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_attempts_total",
			Help: "Total number of visualization gate outcomes by state",
		},
		[]string{"state"},
	)
	LeadsCaptured = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of newly created leads",
		},
	)
	TurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "Duration of one chat turn in seconds",
			Buckets: prometheus.LinearBuckets(0, 2, 15), // 0 to 30 seconds
		},
	)
)

func InitMetrics() {
	for _, c := range []prometheus.Collector{TurnsProcessed, RenderAttempts, LeadsCaptured, TurnDuration} {
		if err := prometheus.Register(c); err != nil {
			log.Error().Err(err).Msg("Failed to register metric")
		}
	}
}
