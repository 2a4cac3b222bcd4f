package stream_test

import (
	"testing"
	"time"

	"streamhub/internal/app/domain/stream"
)

func TestTierAt(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt string
		want      string
	}{
		{"empty", "", ""},
		{"garbage", "not-a-date", ""},
		{"yesterday", now.AddDate(0, 0, -1).Format("2006-01-02"), stream.TierRecruit},
		{"day 182", now.AddDate(0, 0, -182).Format("2006-01-02"), stream.TierRecruit},
		{"day 183", now.AddDate(0, 0, -183).Format("2006-01-02"), stream.TierExperienced},
		{"day 729", now.AddDate(0, 0, -729).Format("2006-01-02"), stream.TierExperienced},
		{"day 730", now.AddDate(0, 0, -730).Format("2006-01-02"), stream.TierVeteran},
		{"decade", "2014-12-01", stream.TierVeteran},
		{"rfc3339", now.AddDate(0, 0, -10).Format(time.RFC3339), stream.TierRecruit},
		{"same day", now.Format("2006-01-02"), stream.TierRecruit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stream.TierAt(tt.createdAt, now); got != tt.want {
				t.Fatalf("TierAt(%q) = %q, want %q", tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestItemID(t *testing.T) {
	t.Parallel()
	if got := stream.ItemID("twitch", "xQc"); got != "twitch-xqc" {
		t.Fatalf("got %q", got)
	}
	if stream.ItemID("twitch", "XQC") != stream.ItemID("twitch", "xqc") {
		t.Fatal("id must be case-insensitive on channel")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
		want *stream.Item
	}{
		{
			name: "minimal twitch record",
			raw: map[string]any{
				"platform": "twitch",
				"channel":  "XQC",
				"url":      "https://twitch.tv/xqc",
			},
			want: &stream.Item{
				ID:       "twitch-xqc",
				Platform: "twitch",
				Channel:  "xqc",
				Title:    "xqc",
				URL:      "https://twitch.tv/xqc",
				IsLive:   true,
			},
		},
		{
			name: "full record with json numbers",
			raw: map[string]any{
				"platform":    "trovo",
				"channel":     "someone",
				"title":       "Ranked grind",
				"url":         "https://trovo.live/someone",
				"isLive":      false,
				"language":    "EN",
				"viewerCount": float64(321),
				"createdAt":   "2020-01-02",
			},
			want: &stream.Item{
				ID:          "trovo-someone",
				Platform:    "trovo",
				Channel:     "someone",
				Title:       "Ranked grind",
				URL:         "https://trovo.live/someone",
				IsLive:      false,
				Language:    "en",
				ViewerCount: 321,
				CreatedAt:   "2020-01-02",
			},
		},
		{
			name: "unknown platform dropped",
			raw:  map[string]any{"platform": "youtube", "channel": "x", "url": "u"},
			want: nil,
		},
		{
			name: "missing channel dropped",
			raw:  map[string]any{"platform": "kick", "url": "u"},
			want: nil,
		},
		{
			name: "missing url dropped",
			raw:  map[string]any{"platform": "kick", "channel": "x"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := stream.Normalize(tt.raw)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected record to be dropped, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("record was dropped")
			}
			if *got != *tt.want {
				t.Fatalf("got %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestFallbackIDsStable(t *testing.T) {
	t.Parallel()

	a := stream.Fallback()
	b := stream.Fallback()
	if len(a) == 0 {
		t.Fatal("fallback catalog is empty")
	}
	for i := range a {
		if a[i].ID != stream.ItemID(a[i].Platform, a[i].Channel) {
			t.Fatalf("fallback item %q has unstable id", a[i].ID)
		}
		if a[i].ID != b[i].ID {
			t.Fatal("fallback catalog must be deterministic")
		}
	}
}
