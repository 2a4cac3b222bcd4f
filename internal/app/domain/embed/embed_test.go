package embed_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/domain/embed"
	"streamhub/internal/app/domain/stream"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestBuildURLTwitch(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformTwitch, Channel: "xqc", IsLive: true}

	raw, err := embed.BuildURL(s, embed.Options{ParentHost: "hub.example.com"})
	require.NoError(t, err)

	u := mustParse(t, raw)
	assert.Equal(t, "player.twitch.tv", u.Host)
	q := u.Query()
	assert.Equal(t, "xqc", q.Get("channel"))
	assert.Equal(t, "hub.example.com", q.Get("parent"))
	assert.Equal(t, "true", q.Get("autoplay"))
	assert.Equal(t, "true", q.Get("muted"))
}

func TestBuildURLTrovo(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformTrovo, Channel: "someone", IsLive: true}

	raw, err := embed.BuildURL(s, embed.Options{})
	require.NoError(t, err)

	u := mustParse(t, raw)
	assert.Equal(t, "player.trovo.live", u.Host)
	assert.Equal(t, "/embed/player", u.Path)
	q := u.Query()
	assert.Equal(t, "someone", q.Get("streamername"))
	assert.Equal(t, "1", q.Get("autoplay"))
	assert.Equal(t, "1", q.Get("muted"))
}

func TestBuildURLKick(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformKick, Channel: "trainwreckstv", IsLive: true}

	raw, err := embed.BuildURL(s, embed.Options{})
	require.NoError(t, err)

	u := mustParse(t, raw)
	assert.Equal(t, "player.kick.com", u.Host)
	assert.Equal(t, "/trainwreckstv", u.Path)
	assert.Equal(t, "true", u.Query().Get("muted"))
}

func TestBuildURLAudioRule(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformTwitch, Channel: "xqc", IsLive: true}

	tests := []struct {
		name      string
		opts      embed.Options
		wantMuted string
	}{
		{"default mode active slot stays muted", embed.Options{IsActive: true}, "true"},
		{"focus mode inactive slot stays muted", embed.Options{FocusMode: true}, "true"},
		{"focus mode active slot is audible", embed.Options{FocusMode: true, IsActive: true}, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := embed.BuildURL(s, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMuted, mustParse(t, raw).Query().Get("muted"))
		})
	}
}

func TestBuildURLOffline(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformTwitch, Channel: "xqc", IsLive: false}
	_, err := embed.BuildURL(s, embed.Options{})
	assert.ErrorIs(t, err, embed.ErrOffline)
}

func TestBuildURLUnknownPlatformFallsBack(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: "youtube", Channel: "x", URL: "https://youtube.com/@x", IsLive: true}
	raw, err := embed.BuildURL(s, embed.Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://youtube.com/@x", raw)
}

func TestBuildURLDefaultParent(t *testing.T) {
	t.Parallel()

	s := stream.Item{Platform: stream.PlatformTwitch, Channel: "xqc", IsLive: true}
	raw, err := embed.BuildURL(s, embed.Options{})
	require.NoError(t, err)
	assert.Equal(t, "localhost", mustParse(t, raw).Query().Get("parent"))
}
