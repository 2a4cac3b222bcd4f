package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogRefreshes counts refresh cycles per source and outcome.
	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_catalog_refreshes_total",
			Help: "Catalog refresh cycles per source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// CatalogSize is the number of channels in the current catalog per source.
	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hub_catalog_size",
			Help: "Channels in the current catalog per source",
		},
		[]string{"source"},
	)

	// SlotAssignments counts player slot assignments per entry path.
	SlotAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_slot_assignments_total",
			Help: "Player slot assignments per entry path",
		},
		[]string{"via"},
	)

	// ProviderErrors counts failed upstream API calls per provider.
	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_provider_errors_total",
			Help: "Failed upstream API calls per provider",
		},
		[]string{"provider"},
	)

	// WSConnections is the number of renderer sockets currently attached.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_ws_connections",
		Help: "Renderer websocket connections currently attached",
	})

	// SessionsActive is the number of live OAuth sessions.
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_sessions_active",
		Help: "Live OAuth sessions",
	})
)
