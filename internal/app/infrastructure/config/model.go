package config

import "time"

type Config struct {
	App     App     `json:"app"`
	Proxy   *Proxy  `json:"proxy"`
	Twitch  Twitch  `json:"twitch"`
	Trovo   Trovo   `json:"trovo"`
	Hub     Hub     `json:"hub"`
	Limiter Limiter `json:"limiter"`
}

type App struct {
	LogLevel   string `json:"log_level"`
	GinMode    string `json:"gin_mode"`
	Listen     string `json:"listen"`
	AuthToken  string `json:"auth_token"`
	PublicHost string `json:"public_host"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Twitch struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_uri"`
	Scopes       []string `json:"scopes"`
}

type Trovo struct {
	ClientID string `json:"client_id"`
}

type Hub struct {
	PreferredGame string `json:"preferred_game"`
	TwitchLimit   int    `json:"twitch_limit"`
	TrovoLimit    int    `json:"trovo_limit"`
	RefreshSecs   int    `json:"refresh_secs"`
	CouplePolicy  string `json:"couple_policy"` // "always" or "buttons"
	StatePath     string `json:"state_path"`
	TaxonomyPath  string `json:"taxonomy_path"`

	// DisablePlatformFilter turns the directory's platform predicate into a
	// pass-through without touching persisted filter state.
	DisablePlatformFilter bool `json:"disable_platform_filter"`
}

type Limiter struct {
	Requests int           `json:"requests"`
	Per      time.Duration `json:"per"`
}
