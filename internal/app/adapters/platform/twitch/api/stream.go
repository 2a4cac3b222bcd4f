package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"streamhub/internal/app/domain/stream"
)

// GameID resolves a category name to its helix game id, caching hits since
// the preferred category barely ever changes.
func (t *Twitch) GameID(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := t.games.Get(key); ok {
		return id, nil
	}

	params := url.Values{}
	params.Set("name", name)

	var resp gamesResponse
	if err := t.doHelix(ctx, "GET", helixURL("/games", params), "", &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].ID == "" {
		return "", fmt.Errorf("%w: %s", ErrGameNotFound, name)
	}

	t.games.Set(key, resp.Data[0].ID)
	return resp.Data[0].ID, nil
}

// StreamsByGame lists live channels for a named category, normalized to the
// canonical shape. User records are joined in for avatars and account age.
func (t *Twitch) StreamsByGame(ctx context.Context, name string, first int) ([]stream.Item, error) {
	if first < 1 {
		first = 1
	}
	if first > 100 {
		first = 100
	}

	gameID, err := t.GameID(ctx, name)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("game_id", gameID)
	params.Set("first", strconv.Itoa(first))
	params.Set("type", "live")

	var resp streamsResponse
	if err := t.doHelix(ctx, "GET", helixURL("/streams", params), "", &resp); err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(resp.Data))
	seen := make(map[string]struct{}, len(resp.Data))
	for _, s := range resp.Data {
		if s.UserID == "" {
			continue
		}
		if _, ok := seen[s.UserID]; ok {
			continue
		}
		seen[s.UserID] = struct{}{}
		userIDs = append(userIDs, s.UserID)
	}

	users, err := t.usersByID(ctx, userIDs)
	if err != nil {
		// avatars and account age are decoration; the listing stands alone
		t.log.Warn("Helix users join failed", "error", err.Error())
		users = nil
	}

	items := make([]stream.Item, 0, len(resp.Data))
	for _, s := range resp.Data {
		channel := strings.ToLower(s.UserLogin)
		if channel == "" {
			channel = strings.ToLower(s.UserName)
		}
		if channel == "" {
			continue
		}

		item := stream.Item{
			ID:          stream.ItemID(stream.PlatformTwitch, channel),
			Platform:    stream.PlatformTwitch,
			Channel:     channel,
			Title:       firstNonEmpty(s.UserName, channel),
			URL:         "https://www.twitch.tv/" + channel,
			IsLive:      true,
			Category:    firstNonEmpty(s.GameName, "Unknown"),
			Language:    strings.ToLower(s.Language),
			ViewerCount: s.ViewerCount,
		}

		if u, ok := users[s.UserID]; ok {
			item.ProfileImageURL = u.profileImageURL
			if len(u.createdAt) >= 10 {
				item.CreatedAt = u.createdAt[:10]
			}
		}

		items = append(items, item)
	}

	return items, nil
}

type userRecord struct {
	profileImageURL string
	createdAt       string
}

// usersByID fetches user records in the 100-id chunks helix allows.
func (t *Twitch) usersByID(ctx context.Context, ids []string) (map[string]userRecord, error) {
	out := make(map[string]userRecord, len(ids))

	for start := 0; start < len(ids); start += 100 {
		end := min(start+100, len(ids))

		params := url.Values{}
		for _, id := range ids[start:end] {
			params.Add("id", id)
		}

		var resp usersResponse
		if err := t.doHelix(ctx, "GET", helixURL("/users", params), "", &resp); err != nil {
			return nil, err
		}
		for _, u := range resp.Data {
			out[u.ID] = userRecord{
				profileImageURL: u.ProfileImageURL,
				createdAt:       u.CreatedAt,
			}
		}
	}

	return out, nil
}

// IsNotFound reports whether an error is the game-lookup miss callers map to
// a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrNotFound)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
