package twitch

import (
	"context"
	"net/http"

	"streamhub/internal/app/adapters/platform/twitch/api"
	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/pkg/logger"
)

// Twitch is the helix adapter plus its catalog-source face: the refresh loop
// sees it as one provider of the merged directory.
type Twitch struct {
	*api.Twitch
	manager *config.Manager
}

func New(log logger.Logger, manager *config.Manager, client *http.Client) *Twitch {
	return &Twitch{
		Twitch:  api.NewTwitch(log, manager, client),
		manager: manager,
	}
}

func (t *Twitch) Name() string {
	return stream.PlatformTwitch
}

func (t *Twitch) LiveStreams(ctx context.Context) ([]stream.Item, error) {
	cfg := t.manager.Get()
	return t.StreamsByGame(ctx, cfg.Hub.PreferredGame, cfg.Hub.TwitchLimit)
}
