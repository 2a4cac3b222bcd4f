package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/app/adapters/bridge"
	"streamhub/internal/app/adapters/http/handlers"
	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/pkg/logger"
)

func testEnv(t *testing.T) (*gin.Engine, *hub.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	log := logger.New()
	b := bridge.New(log)
	h := hub.New(hub.Options{}, nil, b)

	seq := h.BeginRefresh("catalog")
	require.True(t, h.ReplaceCatalog(seq, []stream.Item{
		{ID: "twitch-xqc", Platform: "twitch", Channel: "xqc", URL: "https://twitch.tv/xqc", IsLive: true},
		{ID: "twitch-bulldog", Platform: "twitch", Channel: "bulldog", URL: "https://twitch.tv/bulldog", IsLive: true},
		{ID: "twitch-sleeper", Platform: "twitch", Channel: "sleeper", URL: "https://twitch.tv/sleeper", IsLive: false},
	}, hub.SourceLive, ""))

	hd := handlers.New(log, manager, handlers.Deps{Hub: h, Bridge: b})

	r := gin.New()
	r.POST("/api/state/assign", hd.AssignHandler)
	r.POST("/api/state/focus", hd.FocusHandler)
	r.POST("/api/state/navigate", hd.NavigateHandler)
	r.GET("/api/state", hd.StateHandler)
	r.GET("/api/multiview/layout", hd.LayoutHandler)
	r.GET("/api/multiview/embed", hd.EmbedHandler)
	r.GET("/multiview", hd.ViewHandler)
	return r, h
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]json.RawMessage
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func decodeState(t *testing.T, raw json.RawMessage) hub.State {
	t.Helper()
	var st hub.State
	require.NoError(t, json.Unmarshal(raw, &st))
	return st
}

func TestAssignHandler(t *testing.T) {
	t.Parallel()
	r, _ := testEnv(t)

	w, _ := doJSON(t, r, "POST", "/api/state/assign", `{"streamId":"twitch-ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, "POST", "/api/state/assign", `{"streamId":"twitch-sleeper"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "offline streams cannot be assigned")

	w, out := doJSON(t, r, "POST", "/api/state/assign", `{"streamId":"twitch-xqc","mode":"next"}`)
	require.Equal(t, http.StatusOK, w.Code)
	st := decodeState(t, out["state"])
	assert.Equal(t, "twitch-xqc", st.Slots.Get(1))
	assert.Equal(t, 1, st.ActiveSlot)

	w, out = doJSON(t, r, "POST", "/api/state/assign", `{"streamId":"twitch-bulldog","mode":"slot","slot":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	st = decodeState(t, out["state"])
	assert.Equal(t, "twitch-bulldog", st.Slots.Get(3))

	w, _ = doJSON(t, r, "POST", "/api/state/assign", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFocusHandlerToggleAndSet(t *testing.T) {
	t.Parallel()
	r, h := testEnv(t)

	h.AssignToSlot(1, "twitch-xqc")
	h.AssignToSlot(2, "twitch-bulldog")

	w, out := doJSON(t, r, "POST", "/api/state/focus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeState(t, out["state"]).FocusMode, "empty body toggles")

	w, out = doJSON(t, r, "POST", "/api/state/focus", `{"on":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeState(t, out["state"]).FocusMode)
}

func TestNavigateHandlerSeedsOnce(t *testing.T) {
	t.Parallel()
	r, _ := testEnv(t)

	w, out := doJSON(t, r, "POST", "/api/state/navigate",
		`{"path":"/multiview","query":"seed=twitch-xqc&categoryName=Dota+2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	st := decodeState(t, out["state"])
	assert.Equal(t, "/multiview", st.RoutePath)
	assert.Equal(t, "twitch-xqc", st.Slots.Get(1))
	assert.Equal(t, 1, st.TargetSlot)
	assert.Equal(t, "Dota 2", st.Multiview.CategoryName)

	var seed hub.SeedResult
	require.NoError(t, json.Unmarshal(out["seed"], &seed))
	assert.True(t, seed.SeededSlot)
	assert.True(t, seed.SetContext)
}

func TestLayoutHandlerAudioRule(t *testing.T) {
	t.Parallel()
	r, h := testEnv(t)

	h.AssignToSlot(1, "twitch-xqc")
	h.AssignToSlot(2, "twitch-bulldog")
	h.SelectSlot(1)
	h.SetFocusMode(true)

	w, _ := doJSON(t, r, "GET", "/api/multiview/layout", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		VisibleCount int  `json:"visibleCount"`
		FocusMode    bool `json:"focusMode"`
		Slots        []struct {
			Slot     int    `json:"slot"`
			StreamID string `json:"streamId"`
			EmbedURL string `json:"embedUrl"`
			Hidden   bool   `json:"hidden"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.VisibleCount)
	assert.True(t, resp.FocusMode)
	require.Len(t, resp.Slots, 4)

	assert.Contains(t, resp.Slots[0].EmbedURL, "muted=false", "active slot in focus mode is audible")
	assert.Contains(t, resp.Slots[1].EmbedURL, "muted=true")
	assert.True(t, resp.Slots[2].Hidden)
	assert.True(t, resp.Slots[3].Hidden)
}

func TestEmbedHandler(t *testing.T) {
	t.Parallel()
	r, h := testEnv(t)

	h.AssignToSlot(2, "twitch-bulldog")

	w, _ := doJSON(t, r, "GET", "/api/multiview/embed?slot=5", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := doJSON(t, r, "GET", "/api/multiview/embed?slot=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var streamID, embedURL string
	require.NoError(t, json.Unmarshal(out["streamId"], &streamID))
	require.NoError(t, json.Unmarshal(out["embedUrl"], &embedURL))
	assert.Equal(t, "twitch-bulldog", streamID)
	assert.Contains(t, embedURL, "player.twitch.tv")
	assert.Contains(t, embedURL, "channel=bulldog")
}

func TestViewHandlerSeedsFromQuery(t *testing.T) {
	t.Parallel()
	r, _ := testEnv(t)

	w, out := doJSON(t, r, "GET", "/multiview?seed=twitch-xqc", "")
	require.Equal(t, http.StatusOK, w.Code)

	st := decodeState(t, out["state"])
	assert.Equal(t, "/multiview", st.RoutePath)
	assert.Equal(t, "twitch-xqc", st.Slots.Get(1))

	var seed hub.SeedResult
	require.NoError(t, json.Unmarshal(out["seed"], &seed))
	assert.True(t, seed.SeededSlot)
}
