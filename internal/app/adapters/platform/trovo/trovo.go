package trovo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/internal/app/infrastructure/storage"
	"streamhub/pkg/logger"
)

const apiBase = "https://open-api.trovo.live/openplatform"

var ErrCategoryNotFound = errors.New("trovo category not found")

// Trovo talks to the open API with a bare client id. Every listing endpoint
// is a POST with a JSON body, category ids get cached since they never move.
type Trovo struct {
	log     logger.Logger
	manager *config.Manager
	client  *http.Client

	categoryIDs *storage.Cache[string]
}

func New(log logger.Logger, manager *config.Manager, client *http.Client) *Trovo {
	return &Trovo{
		log:         log,
		manager:     manager,
		client:      client,
		categoryIDs: storage.NewCache[string](64, time.Hour),
	}
}

func (t *Trovo) Name() string {
	return stream.PlatformTrovo
}

func (t *Trovo) LiveStreams(ctx context.Context) ([]stream.Item, error) {
	cfg := t.manager.Get()
	return t.StreamsByGame(ctx, cfg.Hub.PreferredGame, cfg.Hub.TrovoLimit)
}

type categoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type searchCategoryResponse struct {
	CategoryInfo []categoryInfo `json:"category_info"`
}

type topChannel struct {
	IsLive         bool   `json:"is_live"`
	Username       string `json:"username"`
	NickName       string `json:"nick_name"`
	ProfilePic     string `json:"profile_pic"`
	CategoryName   string `json:"category_name"`
	LanguageCode   string `json:"language_code"`
	ChannelCountry string `json:"channel_country"`
	CurrentViewers int    `json:"current_viewers"`
}

type topChannelsResponse struct {
	TopChannelsLists []topChannel `json:"top_channels_lists"`
}

func (t *Trovo) StreamsByGame(ctx context.Context, name string, first int) ([]stream.Item, error) {
	if first < 1 || first > 100 {
		first = 20
	}

	categoryID, err := t.categoryID(ctx, name)
	if err != nil {
		return nil, err
	}

	var resp topChannelsResponse
	err = t.post(ctx, "gettopchannels", map[string]any{
		"limit":       first,
		"after":       true,
		"token":       "",
		"cursor":      0,
		"category_id": categoryID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	items := make([]stream.Item, 0, len(resp.TopChannelsLists))
	for _, c := range resp.TopChannelsLists {
		if !c.IsLive {
			continue
		}

		username := strings.TrimSpace(c.Username)
		channel := strings.ToLower(username)
		if channel == "" {
			channel = strings.ToLower(strings.TrimSpace(c.NickName))
		}
		if channel == "" {
			continue
		}

		url := "https://trovo.live/"
		if username != "" {
			url += username
		}

		title := c.NickName
		if title == "" {
			title = channel
		}

		category := c.CategoryName
		if category == "" {
			category = name
		}

		items = append(items, stream.Item{
			ID:              stream.ItemID(stream.PlatformTrovo, channel),
			Platform:        stream.PlatformTrovo,
			Channel:         channel,
			Title:           title,
			URL:             url,
			IsLive:          true,
			Category:        category,
			Language:        strings.ToLower(strings.TrimSpace(c.LanguageCode)),
			ViewerCount:     c.CurrentViewers,
			ProfileImageURL: c.ProfilePic,
		})
	}

	return items, nil
}

// categoryID resolves a category name to its id, preferring an exact
// case-insensitive name match and falling back to the first search hit.
func (t *Trovo) categoryID(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := t.categoryIDs.Get(key); ok {
		return id, nil
	}

	var resp searchCategoryResponse
	err := t.post(ctx, "searchcategory", map[string]any{"query": name, "limit": 20}, &resp)
	if err != nil {
		return "", err
	}

	id := ""
	for _, c := range resp.CategoryInfo {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) && c.ID != "" {
			id = c.ID
			break
		}
	}
	if id == "" && len(resp.CategoryInfo) > 0 {
		id = resp.CategoryInfo[0].ID
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}

	t.categoryIDs.Set(key, id)
	return id, nil
}

func (t *Trovo) post(ctx context.Context, path string, body map[string]any, target any) error {
	cfg := t.manager.Get()
	if cfg.Trovo.ClientID == "" {
		return errors.New("trovo client id is not configured")
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiBase+"/"+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-ID", cfg.Trovo.ClientID)
	req.Header.Set("Content-Type", "application/json")

	t.log.Trace("Trovo request", slog.String("path", path))

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("trovo returned %d on %s: %s", resp.StatusCode, path, string(text))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
