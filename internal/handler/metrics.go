package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	refreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_token_refreshes_total",
		Help: "Total number of successful token refreshes.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_token_verifications_total",
			Help: "Total number of access token verification attempts by status.",
		},
		[]string{"status"},
	)

	assetUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_asset_uploads_total",
			Help: "Total number of asset uploads by type.",
		},
		[]string{"type"},
	)

	assetGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_asset_generations_total",
			Help: "Total number of AI asset generations by type and status.",
		},
		[]string{"type", "status"},
	)

	scenarioCompletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_scenario_completions_total",
		Help: "Total number of scenario completions by players.",
	})
)
