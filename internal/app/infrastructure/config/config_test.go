package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/infrastructure/config"
)

func TestNewCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := config.New(path)
	require.NoError(t, err)

	cfg := m.Get()
	assert.Equal(t, ":3000", cfg.App.Listen)
	assert.Equal(t, "Dota 2", cfg.Hub.PreferredGame)
	assert.Equal(t, config.CoupleAlways, cfg.Hub.CouplePolicy)
	assert.Equal(t, "cache/streamhub_state.json", cfg.Hub.StatePath)

	// the default file lands on disk for the operator to edit
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{"bad log level", func(cfg *config.Config) { cfg.App.LogLevel = "verbose" }},
		{"bad gin mode", func(cfg *config.Config) { cfg.App.GinMode = "production" }},
		{"bad couple policy", func(cfg *config.Config) { cfg.Hub.CouplePolicy = "sometimes" }},
		{"missing preferred game", func(cfg *config.Config) { cfg.Hub.PreferredGame = "" }},
		{"twitch limit too high", func(cfg *config.Config) { cfg.Hub.TwitchLimit = 250 }},
		{"trovo limit zero", func(cfg *config.Config) { cfg.Hub.TrovoLimit = 0 }},
		{"half-set limiter", func(cfg *config.Config) { cfg.Limiter.Per = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")

			m, err := config.New(path)
			require.NoError(t, err)
			cfg := *m.Get()
			tt.modify(&cfg)

			data, err := json.MarshalIndent(cfg, "", "  ")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, data, 0644))

			_, err = config.New(path)
			assert.Error(t, err)
		})
	}
}

func TestValidateFillsFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := config.New(path)
	require.NoError(t, err)

	cfg := *m.Get()
	cfg.App.Listen = ""
	cfg.App.PublicHost = ""
	cfg.Hub.CouplePolicy = ""
	cfg.Hub.RefreshSecs = 1
	cfg.Hub.StatePath = ""

	data, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	m, err = config.New(path)
	require.NoError(t, err)

	got := m.Get()
	assert.Equal(t, ":3000", got.App.Listen)
	assert.Equal(t, "localhost", got.App.PublicHost)
	assert.Equal(t, config.CoupleAlways, got.Hub.CouplePolicy)
	assert.Equal(t, 30, got.Hub.RefreshSecs)
	assert.Equal(t, "cache/streamhub_state.json", got.Hub.StatePath)
}

func TestUpdateValidatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := config.New(path)
	require.NoError(t, err)

	err = m.Update(func(cfg *config.Config) {
		cfg.Hub.CouplePolicy = config.CoupleButtons
	})
	require.NoError(t, err)
	assert.Equal(t, config.CoupleButtons, m.Get().Hub.CouplePolicy)

	// reload from disk to confirm the write
	m2, err := config.New(path)
	require.NoError(t, err)
	assert.Equal(t, config.CoupleButtons, m2.Get().Hub.CouplePolicy)

	err = m.Update(func(cfg *config.Config) {
		cfg.Hub.TwitchLimit = 9000
	})
	assert.Error(t, err)
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("TWITCH_CLIENT_ID", "env-client-id")
	t.Setenv("STREAMHUB_AUTH_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.json")
	m, err := config.New(path)
	require.NoError(t, err)

	cfg := m.Get()
	assert.Equal(t, "env-client-id", cfg.Twitch.ClientID)
	assert.Equal(t, "env-token", cfg.App.AuthToken)
}
