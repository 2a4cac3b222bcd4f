package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/domain/taxonomy"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/internal/app/ports"
	"streamhub/pkg/logger"
)

type stubTwitchPort struct{}

func (stubTwitchPort) StreamsByGame(context.Context, string, int) ([]stream.Item, error) {
	return nil, nil
}

func (stubTwitchPort) Categories(context.Context, int) ([]taxonomy.Category, error) {
	return nil, nil
}

func (stubTwitchPort) AuthorizeURL(string, string) string { return "" }

func (stubTwitchPort) ExchangeCode(context.Context, string) (*ports.UserTokens, error) {
	return &ports.UserTokens{}, nil
}

func (stubTwitchPort) RefreshTokens(context.Context, string) (*ports.UserTokens, error) {
	return &ports.UserTokens{}, nil
}

func (stubTwitchPort) ValidateToken(context.Context, string) (*ports.TokenValidation, error) {
	return &ports.TokenValidation{Login: "xqc", UserID: "71092938", Scopes: []string{"user:read:follows"}}, nil
}

func (stubTwitchPort) RevokeToken(context.Context, string) error { return nil }

func (stubTwitchPort) CurrentUser(context.Context, string) (*ports.Profile, error) {
	return &ports.Profile{ID: "71092938", Login: "xqc"}, nil
}

func (stubTwitchPort) FollowedChannels(context.Context, string, string, int, string) ([]ports.FollowedChannel, ports.Pagination, error) {
	return nil, ports.Pagination{}, nil
}

func TestSessionsGetReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewSessions()
	sid := s.Create(&Session{Login: "xqc", ExpiresAt: time.Now().Add(time.Hour)})

	snap, ok := s.Get(sid)
	require.True(t, ok)
	snap.Login = "scribble"

	stored, ok := s.Get(sid)
	require.True(t, ok)
	assert.Equal(t, "xqc", stored.Login, "mutating the copy must not touch the store")

	s.Update(sid, func(live *Session) { live.Login = "forsen" })
	stored, ok = s.Get(sid)
	require.True(t, ok)
	assert.Equal(t, "forsen", stored.Login)

	s.Update("no-such-session", func(live *Session) { live.Login = "ghost" })
}

func authedContext(sid string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Request.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})
	return c
}

func TestEnsureFreshConcurrentSharedCookie(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	h := New(logger.New(), manager, Deps{Twitch: stubTwitchPort{}})
	sid := h.sessions.Create(&Session{
		AccessToken:     "tok",
		RefreshToken:    "refresh",
		ExpiresAt:       time.Now().Add(time.Hour),
		LastValidatedAt: time.Now().Add(-2 * validateInterval),
	})

	// a page load fires /me and /follows together with the same cookie
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, _, ok := h.ensureFresh(authedContext(sid))
			assert.True(t, ok)
			assert.Equal(t, "tok", sess.AccessToken)
		}()
	}
	wg.Wait()

	sess, ok := h.sessions.Get(sid)
	require.True(t, ok)
	assert.Equal(t, "xqc", sess.Login)
	assert.Equal(t, "71092938", sess.UserID)
	assert.WithinDuration(t, time.Now(), sess.LastValidatedAt, time.Minute)
}
