package config

import (
	"errors"
	"fmt"
)

const (
	CoupleAlways  = "always"
	CoupleButtons = "buttons"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}
	if cfg.App.GinMode != "" && cfg.App.GinMode != "debug" && cfg.App.GinMode != "release" && cfg.App.GinMode != "test" {
		return fmt.Errorf("app.gin_mode must be debug, release or test; got %s", cfg.App.GinMode)
	}
	if cfg.App.Listen == "" {
		cfg.App.Listen = ":3000"
	}
	if cfg.App.PublicHost == "" {
		cfg.App.PublicHost = "localhost"
	}

	// hub
	if cfg.Hub.CouplePolicy != "" && cfg.Hub.CouplePolicy != CoupleAlways && cfg.Hub.CouplePolicy != CoupleButtons {
		return fmt.Errorf("hub.couple_policy must be %q or %q; got %s", CoupleAlways, CoupleButtons, cfg.Hub.CouplePolicy)
	}
	if cfg.Hub.CouplePolicy == "" {
		cfg.Hub.CouplePolicy = CoupleAlways
	}
	if cfg.Hub.PreferredGame == "" {
		return errors.New("hub.preferred_game is required")
	}
	if cfg.Hub.TwitchLimit < 1 || cfg.Hub.TwitchLimit > 100 {
		return fmt.Errorf("hub.twitch_limit must be [1,100]; got %d", cfg.Hub.TwitchLimit)
	}
	if cfg.Hub.TrovoLimit < 1 || cfg.Hub.TrovoLimit > 100 {
		return fmt.Errorf("hub.trovo_limit must be [1,100]; got %d", cfg.Hub.TrovoLimit)
	}
	if cfg.Hub.RefreshSecs < 5 {
		cfg.Hub.RefreshSecs = 30
	}
	if cfg.Hub.StatePath == "" {
		cfg.Hub.StatePath = "cache/streamhub_state.json"
	}

	// limiter
	if (cfg.Limiter.Requests != 0 && cfg.Limiter.Per == 0) || (cfg.Limiter.Requests == 0 && cfg.Limiter.Per != 0) {
		return errors.New("limiter.requests and limiter.per must both be set or both be zero")
	}

	return nil
}
