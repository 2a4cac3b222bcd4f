package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"streamhub/internal/app/domain/taxonomy"
)

// justChattingID is pinned so the category board always carries the shelf
// users expect even when it drops out of the top list.
const justChattingID = "509658"

// Categories lists top categories with aggregated viewer counts and the tag
// vocabulary observed on their live streams. Results are cached briefly; the
// board does not need second-level freshness.
func (t *Twitch) Categories(ctx context.Context, first int) ([]taxonomy.Category, error) {
	if first < 3 {
		first = 3
	}
	if first > 30 {
		first = 30
	}

	cacheKey := "top:" + strconv.Itoa(first)
	if cached, ok := t.categories.Get(cacheKey); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("first", strconv.Itoa(first))

	var top gamesResponse
	if err := t.doHelix(ctx, "GET", helixURL("/games/top", params), "", &top); err != nil {
		return nil, err
	}

	games := top.Data
	if !hasJustChatting(games) {
		if jc, err := t.gameByID(ctx, justChattingID); err == nil && jc != nil {
			games = append([]gameEntry{*jc}, games...)
		}
	}
	if len(games) > first {
		games = games[:first]
	}

	out := make([]taxonomy.Category, 0, len(games))
	for _, game := range games {
		cat := taxonomy.Category{
			ID:        game.ID,
			Name:      game.Name,
			BoxArtURL: game.BoxArtURL,
			Tags:      []taxonomy.Tag{},
		}

		sp := url.Values{}
		sp.Set("game_id", game.ID)
		sp.Set("first", "20")

		var streams streamsResponse
		if err := t.doHelix(ctx, "GET", helixURL("/streams", sp), "", &streams); err == nil {
			seen := make(map[string]struct{})
			for _, s := range streams.Data {
				cat.ViewerCount += s.ViewerCount
				for _, tag := range s.Tags {
					name := strings.TrimSpace(tag)
					if name == "" {
						continue
					}
					id := "tag-" + strings.ToLower(name)
					if _, ok := seen[id]; ok {
						continue
					}
					seen[id] = struct{}{}
					cat.Tags = append(cat.Tags, taxonomy.Tag{ID: id, Name: name})
				}
			}
			cat.StreamCount = len(streams.Data)
		}

		out = append(out, cat)
	}

	t.categories.Set(cacheKey, out)
	return out, nil
}

type gameEntry = struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BoxArtURL string `json:"box_art_url"`
}

func hasJustChatting(games []gameEntry) bool {
	for _, g := range games {
		if strings.EqualFold(g.Name, "Just Chatting") {
			return true
		}
	}
	return false
}

func (t *Twitch) gameByID(ctx context.Context, id string) (*gameEntry, error) {
	params := url.Values{}
	params.Set("id", id)

	var resp gamesResponse
	if err := t.doHelix(ctx, "GET", helixURL("/games", params), "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}
