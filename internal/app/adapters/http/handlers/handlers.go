package handlers

import (
	"time"

	"streamhub/internal/app/adapters/bridge"
	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/taxonomy"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/internal/app/ports"
	"streamhub/pkg/logger"
)

// Deps is everything the HTTP surface talks to.
type Deps struct {
	Hub      *hub.Hub
	Bridge   *bridge.Bridge
	Twitch   ports.TwitchPort
	Trovo    ports.TrovoPort
	Taxonomy *taxonomy.Taxonomy

	// RefreshNow triggers one catalog refresh cycle out of schedule.
	RefreshNow func()
}

type Handlers struct {
	log     logger.Logger
	manager *config.Manager
	deps    Deps

	sessions *Sessions
	started  time.Time
}

func New(log logger.Logger, manager *config.Manager, deps Deps) *Handlers {
	return &Handlers{
		log:      log,
		manager:  manager,
		deps:     deps,
		sessions: NewSessions(),
		started:  time.Now(),
	}
}
