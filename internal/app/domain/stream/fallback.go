package stream

// Fallback returns the bundled sample catalog used when no provider can be
// reached. Callers get a fresh slice per call; mutating it never leaks back.
func Fallback() []Item {
	return []Item{
		{
			ID:       "twitch-alohadancetv",
			Platform: PlatformTwitch,
			Channel:  "alohadancetv",
			Title:    "alohadancetv",
			Category: "Unknown",
			Language: "ru",
			URL:      "https://www.twitch.tv/alohadancetv",
		},
		{
			ID:       "twitch-admiralbulldog",
			Platform: PlatformTwitch,
			Channel:  "admiralbulldog",
			Title:    "admiralbulldog",
			Category: "Unknown",
			Language: "en",
			URL:      "https://www.twitch.tv/admiralbulldog",
		},
		{
			ID:       "twitch-iltw1",
			Platform: PlatformTwitch,
			Channel:  "iltw1",
			Title:    "iltw1",
			Category: "Unknown",
			Language: "ru",
			URL:      "https://www.twitch.tv/iltw1",
		},
		{
			ID:       "twitch-dnmdota",
			Platform: PlatformTwitch,
			Channel:  "dnmdota",
			Title:    "dnmdota",
			Category: "Unknown",
			Language: "ru",
			URL:      "https://www.twitch.tv/dnmdota",
		},
		{
			ID:          "kick-trainwreckstv",
			Platform:    PlatformKick,
			Channel:     "trainwreckstv",
			Title:       "Trainwreckstv",
			Category:    "Just Chatting",
			Language:    "en",
			ViewerCount: 8200,
			CreatedAt:   "2023-01-10",
			URL:         "https://kick.com/trainwreckstv",
			IsLive:      true,
		},
		{
			ID:          "kick-xqc",
			Platform:    PlatformKick,
			Channel:     "xqc",
			Title:       "xQc",
			Category:    "Overwatch 2",
			Language:    "en",
			ViewerCount: 17800,
			CreatedAt:   "2014-12-01",
			URL:         "https://kick.com/xqc",
			IsLive:      true,
		},
		{
			ID:       "trovo-example",
			Platform: PlatformTrovo,
			Channel:  "example",
			Title:    "example",
			Category: "Dota 2",
			Language: "en",
			URL:      "https://trovo.live/",
		},
	}
}
