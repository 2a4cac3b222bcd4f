package stream

import (
	"strings"
)

const (
	PlatformTwitch = "twitch"
	PlatformTrovo  = "trovo"
	PlatformKick   = "kick"
)

// Item is the canonical channel record every provider payload is reduced to.
// JSON tags are the wire contract with the renderers.
type Item struct {
	ID              string `json:"id"`
	Platform        string `json:"platform"`
	Channel         string `json:"channel"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	IsLive          bool   `json:"isLive"`
	Category        string `json:"category,omitempty"`
	Language        string `json:"language,omitempty"`
	ViewerCount     int    `json:"viewerCount"`
	CreatedAt       string `json:"createdAt,omitempty"` // YYYY-MM-DD
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// ItemID derives the stable id for a platform/channel pair. Re-fetching the
// same channel must yield the same id or slot persistence breaks across
// refreshes.
func ItemID(platform, channel string) string {
	return platform + "-" + strings.ToLower(channel)
}

func knownPlatform(p string) bool {
	return p == PlatformTwitch || p == PlatformTrovo || p == PlatformKick
}

// Normalize reduces a loosely-typed provider record to an Item. It returns
// nil when a required field cannot be derived; callers drop such records
// silently since provider payloads are semi-trusted and a partial batch is
// still worth rendering.
func Normalize(raw map[string]any) *Item {
	platform, _ := raw["platform"].(string)
	if !knownPlatform(platform) {
		return nil
	}

	channel := stringField(raw, "channel")
	if channel == "" {
		return nil
	}
	channel = strings.ToLower(channel)

	id := stringField(raw, "id")
	if id == "" {
		id = ItemID(platform, channel)
	}

	title := stringField(raw, "title")
	if title == "" {
		title = channel
	}

	url := stringField(raw, "url")
	if url == "" {
		return nil
	}

	item := &Item{
		ID:              id,
		Platform:        platform,
		Channel:         channel,
		Title:           title,
		URL:             url,
		IsLive:          true,
		Category:        stringField(raw, "category"),
		Language:        strings.ToLower(stringField(raw, "language")),
		CreatedAt:       stringField(raw, "createdAt"),
		ProfileImageURL: stringField(raw, "profileImageUrl"),
	}

	// isLive defaults true unless the payload says otherwise.
	if live, ok := raw["isLive"].(bool); ok {
		item.IsLive = live
	}

	switch v := raw["viewerCount"].(type) {
	case int:
		item.ViewerCount = v
	case float64: // encoding/json numbers
		item.ViewerCount = int(v)
	}

	return item
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
