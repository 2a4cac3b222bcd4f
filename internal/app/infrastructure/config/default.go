package config

import "time"

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel:   "info",
			GinMode:    "release",
			Listen:     ":3000",
			PublicHost: "localhost",
		},
		Twitch: Twitch{
			RedirectURL: "http://localhost:3000/api/auth/twitch/callback",
			Scopes:      []string{"user:read:follows"},
		},
		Hub: Hub{
			PreferredGame: "Dota 2",
			TwitchLimit:   40,
			TrovoLimit:    20,
			RefreshSecs:   30,
			CouplePolicy:  CoupleAlways,
			StatePath:     "cache/streamhub_state.json",
			TaxonomyPath:  "data/category-taxonomy.json",
		},
		Limiter: Limiter{
			Requests: 10,
			Per:      time.Second,
		},
	}
}
