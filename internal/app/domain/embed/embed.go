// Package embed builds provider player URLs for slot iframes.
package embed

import (
	"errors"
	"net/url"

	"streamhub/internal/app/domain/stream"
)

// Options carry the audio decision: exactly one slot may be audible at a
// time, and only in focus mode; the default mode mutes everything.
type Options struct {
	IsActive  bool
	FocusMode bool
	// ParentHost is the page hostname Twitch requires on its parent
	// parameter; embeds fail silently when it is wrong.
	ParentHost string
}

var ErrOffline = errors.New("stream is offline")

// BuildURL constructs the embed URL for a live stream. Offline streams get
// ErrOffline; callers render an offline card instead of mounting a player.
func BuildURL(s stream.Item, opts Options) (string, error) {
	if !s.IsLive {
		return "", ErrOffline
	}

	parent := opts.ParentHost
	if parent == "" {
		parent = "localhost"
	}
	unmuted := opts.FocusMode && opts.IsActive

	switch s.Platform {
	case stream.PlatformTwitch:
		u := url.URL{Scheme: "https", Host: "player.twitch.tv", Path: "/"}
		q := u.Query()
		q.Set("channel", s.Channel)
		q.Add("parent", parent)
		q.Set("autoplay", "true")
		q.Set("muted", boolParam(!unmuted, "true", "false"))
		u.RawQuery = q.Encode()
		return u.String(), nil

	case stream.PlatformTrovo:
		u := url.URL{Scheme: "https", Host: "player.trovo.live", Path: "/embed/player"}
		q := u.Query()
		q.Set("streamername", s.Channel)
		q.Set("autoplay", "1")
		q.Set("muted", boolParam(!unmuted, "1", "0"))
		u.RawQuery = q.Encode()
		return u.String(), nil

	case stream.PlatformKick:
		u := url.URL{Scheme: "https", Host: "player.kick.com", Path: "/" + s.Channel}
		q := u.Query()
		q.Set("autoplay", "true")
		q.Set("muted", boolParam(!unmuted, "true", "false"))
		u.RawQuery = q.Encode()
		return u.String(), nil

	default:
		// unknown providers fall back to their canonical page
		return s.URL, nil
	}
}

func boolParam(muted bool, yes, no string) string {
	if muted {
		return yes
	}
	return no
}
