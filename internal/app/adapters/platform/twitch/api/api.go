package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/time/rate"

	"streamhub/internal/app/domain/taxonomy"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/internal/app/infrastructure/storage"
	"streamhub/pkg/logger"
)

const (
	helixBase   = "https://api.twitch.tv/helix"
	revokeURL   = "https://id.twitch.tv/oauth2/revoke"
	validateURL = "https://id.twitch.tv/oauth2/validate"
)

// Twitch talks to helix with an app token for catalog listing and with user
// tokens for the OAuth session surface. All outbound calls share one rate
// limiter so a renderer burst cannot trip helix's bucket.
type Twitch struct {
	log     logger.Logger
	cfg     *config.Config
	client  *http.Client
	limiter *rate.Limiter

	appTokens oauth2.TokenSource
	userConf  *oauth2.Config

	games      *storage.Cache[string]
	categories *storage.Cache[[]taxonomy.Category]
}

func NewTwitch(log logger.Logger, manager *config.Manager, client *http.Client) *Twitch {
	cfg := manager.Get()

	cc := &clientcredentials.Config{
		ClientID:     cfg.Twitch.ClientID,
		ClientSecret: cfg.Twitch.ClientSecret,
		TokenURL:     endpoints.Twitch.TokenURL,
	}

	limit := rate.Limit(10)
	burst := 10
	if cfg.Limiter.Requests > 0 && cfg.Limiter.Per > 0 {
		limit = rate.Every(cfg.Limiter.Per / time.Duration(cfg.Limiter.Requests))
		burst = cfg.Limiter.Requests
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)

	return &Twitch{
		log:     log,
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		// ReuseTokenSource keeps the app token cached until expiry, so the
		// token endpoint is hit only on rotation.
		appTokens: oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx)),
		userConf: &oauth2.Config{
			ClientID:     cfg.Twitch.ClientID,
			ClientSecret: cfg.Twitch.ClientSecret,
			RedirectURL:  cfg.Twitch.RedirectURL,
			Scopes:       cfg.Twitch.Scopes,
			Endpoint:     endpoints.Twitch,
		},
		games:      storage.NewCache[string](64, time.Hour),
		categories: storage.NewCache[[]taxonomy.Category](8, time.Minute),
	}
}

type helixError struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// doHelix performs one authenticated helix call. An empty userToken means the
// app token is used.
func (t *Twitch) doHelix(ctx context.Context, method, rawURL, userToken string, target any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	auth := userToken
	if auth == "" {
		tok, err := t.appTokens.Token()
		if err != nil {
			return fmt.Errorf("app token: %w", err)
		}
		auth = tok.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+auth)
	req.Header.Set("Client-Id", t.cfg.Twitch.ClientID)

	t.log.Trace("Helix request", slog.String("method", method), slog.String("url", rawURL))

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		if target == nil {
			return nil
		}
		return json.Unmarshal(raw, target)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, string(raw))
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, string(raw))
	case http.StatusNotFound:
		return ErrNotFound
	default:
		var apiErr helixError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("twitch returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("twitch returned %d: %s", resp.StatusCode, string(raw))
	}
}

func helixURL(path string, params url.Values) string {
	return helixBase + path + "?" + params.Encode()
}
