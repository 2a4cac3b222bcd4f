package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func isSafeReturnTo(returnTo string) bool {
	return strings.HasPrefix(returnTo, "/") && !strings.HasPrefix(returnTo, "//")
}

func (h *Handlers) cookieSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.Contains(c.GetHeader("X-Forwarded-Proto"), "https")
}

func (h *Handlers) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, int(sessionTTL.Seconds()), "/", "", h.cookieSecure(c), true)
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.cookieSecure(c), true)
}

// LoginHandler starts the OAuth dance: mint a one-shot state token carrying
// the safe return path and bounce to the provider consent page.
func (h *Handlers) LoginHandler(c *gin.Context) {
	h.sessions.Compact()

	cfg := h.manager.Get()
	if cfg.Twitch.ClientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "twitch client id is not configured"})
		return
	}

	returnTo := c.DefaultQuery("returnTo", "/")
	if !isSafeReturnTo(returnTo) {
		returnTo = "/"
	}

	state := h.sessions.NewState(returnTo)
	c.Redirect(http.StatusFound, h.deps.Twitch.AuthorizeURL(state, ""))
}

// CallbackHandler finishes the dance. Provider-side denials and exchange
// failures both land the user back on returnTo with auth_error params, never
// on an error page.
func (h *Handlers) CallbackHandler(c *gin.Context) {
	h.sessions.Compact()

	returnTo, ok := h.sessions.TakeState(c.Query("state"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid or expired OAuth state.")
		return
	}

	if errCode := c.Query("error"); errCode != "" {
		c.Redirect(http.StatusFound, authErrorRedirect(returnTo, errCode, c.Query("error_description")))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Missing authorization code.")
		return
	}

	ctx := c.Request.Context()

	tokens, err := h.deps.Twitch.ExchangeCode(ctx, code)
	if err != nil {
		h.log.Warn("OAuth code exchange failed", slog.Any("error", err))
		c.Redirect(http.StatusFound, authErrorRedirect(returnTo, "callback_failed", err.Error()))
		return
	}

	validation, err := h.deps.Twitch.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		c.Redirect(http.StatusFound, authErrorRedirect(returnTo, "callback_failed", err.Error()))
		return
	}

	profile, err := h.deps.Twitch.CurrentUser(ctx, tokens.AccessToken)
	if err != nil {
		c.Redirect(http.StatusFound, authErrorRedirect(returnTo, "callback_failed", err.Error()))
		return
	}

	sess := &Session{
		AccessToken:     tokens.AccessToken,
		RefreshToken:    tokens.RefreshToken,
		Scopes:          tokens.Scopes,
		ExpiresAt:       time.UnixMilli(tokens.ExpiresAtMs),
		LastValidatedAt: time.Now(),
		UserID:          validation.UserID,
		Login:           validation.Login,
		Profile:         profile,
	}
	if len(sess.Scopes) == 0 {
		sess.Scopes = validation.Scopes
	}

	h.setSessionCookie(c, h.sessions.Create(sess))
	c.Redirect(http.StatusFound, returnTo)
}

func authErrorRedirect(returnTo, code, description string) string {
	sep := "?"
	if strings.Contains(returnTo, "?") {
		sep = "&"
	}
	out := returnTo + sep + "auth_error=" + url.QueryEscape(code)
	if description != "" {
		out += "&auth_error_description=" + url.QueryEscape(description)
	}
	return out
}

// ensureFresh resolves the request's session and keeps its token usable:
// validate on the configured interval, refresh on a dead access token, drop
// the session when both fail. It works on a copy of the session and writes
// the result back under the store lock, so concurrent requests sharing a
// cookie never touch the same record.
func (h *Handlers) ensureFresh(c *gin.Context) (Session, string, bool) {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		return Session{}, "", false
	}

	sess, ok := h.sessions.Get(sid)
	if !ok {
		h.clearSessionCookie(c)
		return Session{}, "", false
	}

	if time.Since(sess.LastValidatedAt) <= validateInterval {
		return sess, sid, true
	}

	ctx := c.Request.Context()

	validation, err := h.deps.Twitch.ValidateToken(ctx, sess.AccessToken)
	if err == nil {
		sess.applyValidation(validation)
		h.sessions.Update(sid, func(live *Session) { *live = sess })
		return sess, sid, true
	}

	if sess.RefreshToken == "" {
		h.sessions.Delete(sid)
		h.clearSessionCookie(c)
		return Session{}, "", false
	}

	refreshed, err := h.deps.Twitch.RefreshTokens(ctx, sess.RefreshToken)
	if err != nil {
		h.sessions.Delete(sid)
		h.clearSessionCookie(c)
		return Session{}, "", false
	}

	sess.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		sess.RefreshToken = refreshed.RefreshToken
	}
	if len(refreshed.Scopes) > 0 {
		sess.Scopes = refreshed.Scopes
	}
	sess.ExpiresAt = time.UnixMilli(refreshed.ExpiresAtMs)

	validation, err = h.deps.Twitch.ValidateToken(ctx, sess.AccessToken)
	if err != nil {
		h.sessions.Delete(sid)
		h.clearSessionCookie(c)
		return Session{}, "", false
	}

	sess.applyValidation(validation)
	h.sessions.Update(sid, func(live *Session) { *live = sess })
	return sess, sid, true
}

// MeHandler answers without a status error so the renderers can probe auth
// state on every load.
func (h *Handlers) MeHandler(c *gin.Context) {
	sess, _, ok := h.ensureFresh(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "provider": "twitch"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"provider":      "twitch",
		"user":          sess.Profile,
		"scopes":        sess.Scopes,
	})
}

// FollowsHandler proxies one page of the follow list and folds the returned
// ids into the hub's followed set, which drives the followed-only filter.
func (h *Handlers) FollowsHandler(c *gin.Context) {
	sess, _, ok := h.ensureFresh(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	first, _ := strconv.Atoi(c.DefaultQuery("first", "40"))

	follows, page, err := h.deps.Twitch.FollowedChannels(c.Request.Context(), sess.AccessToken, sess.UserID, first, c.Query("after"))
	if err != nil {
		h.providerError(c, "twitch", err)
		return
	}

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.StreamID)
	}
	h.deps.Hub.SetFollowed(ids)

	c.JSON(http.StatusOK, gin.H{"data": follows, "pagination": page})
}

func (h *Handlers) ValidateHandler(c *gin.Context) {
	sess, _, ok := h.ensureFresh(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	validation, err := h.deps.Twitch.ValidateToken(c.Request.Context(), sess.AccessToken)
	if err != nil {
		h.providerError(c, "twitch", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"validation": gin.H{"login": validation.Login, "user_id": validation.UserID, "scopes": validation.Scopes},
		"scopes":     sess.Scopes,
		"user":       sess.Profile,
	})
}

func (h *Handlers) UserHandler(c *gin.Context) {
	sess, sid, ok := h.ensureFresh(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.deps.Twitch.CurrentUser(c.Request.Context(), sess.AccessToken)
	if err != nil {
		h.providerError(c, "twitch", err)
		return
	}

	h.sessions.Update(sid, func(live *Session) { live.Profile = profile })
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// LogoutHandler drops the session and revokes the token best-effort.
func (h *Handlers) LogoutHandler(c *gin.Context) {
	var sess *Session
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		sess = h.sessions.Delete(sid)
	}
	h.clearSessionCookie(c)

	if sess != nil && sess.AccessToken != "" {
		if err := h.deps.Twitch.RevokeToken(c.Request.Context(), sess.AccessToken); err != nil {
			h.log.Debug("Token revoke failed", slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
