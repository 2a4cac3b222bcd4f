package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/ports"
)

// AuthorizeURL builds the provider consent URL for the login redirect. The
// returnTo path rides along inside the state so the callback can land the
// user back where they started.
func (t *Twitch) AuthorizeURL(state, returnTo string) string {
	if returnTo != "" {
		state = state + ":" + url.QueryEscape(returnTo)
	}
	return t.userConf.AuthCodeURL(state)
}

func (t *Twitch) ExchangeCode(ctx context.Context, code string) (*ports.UserTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.client)

	tok, err := t.userConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}
	return tokensFromOAuth(tok), nil
}

func (t *Twitch) RefreshTokens(ctx context.Context, refreshToken string) (*ports.UserTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.client)

	src := t.userConf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}
	return tokensFromOAuth(tok), nil
}

func tokensFromOAuth(tok *oauth2.Token) *ports.UserTokens {
	out := &ports.UserTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAtMs:  tok.Expiry.UnixMilli(),
	}
	if scope, ok := tok.Extra("scope").([]any); ok {
		for _, s := range scope {
			if str, ok := s.(string); ok {
				out.Scopes = append(out.Scopes, str)
			}
		}
	}
	return out
}

// ValidateToken asks the identity endpoint who a token belongs to. A 401
// maps to ErrUnauthorized so session code can fall through to refresh.
func (t *Twitch) ValidateToken(ctx context.Context, accessToken string) (*ports.TokenValidation, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", validateURL, nil)
	if err != nil {
		return nil, err
	}
	// the validate endpoint wants the legacy OAuth scheme, not Bearer
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token validate returned %d", resp.StatusCode)
	}

	var v validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &ports.TokenValidation{Login: v.Login, UserID: v.UserID, Scopes: v.Scopes}, nil
}

// RevokeToken is best-effort; logout proceeds whether or not the provider
// accepted the revocation.
func (t *Twitch) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	params := url.Values{}
	params.Set("client_id", t.cfg.Twitch.ClientID)
	params.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, "POST", revokeURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (t *Twitch) CurrentUser(ctx context.Context, accessToken string) (*ports.Profile, error) {
	var resp usersResponse
	if err := t.doHelix(ctx, "GET", helixBase+"/users", accessToken, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}

	u := resp.Data[0]
	return &ports.Profile{
		ID:              u.ID,
		Login:           u.Login,
		DisplayName:     u.DisplayName,
		ProfileImageURL: u.ProfileImageURL,
	}, nil
}

// FollowedChannels pages through the user's follow list, passing the
// provider cursor straight back to the caller.
func (t *Twitch) FollowedChannels(ctx context.Context, accessToken, userID string, first int, after string) ([]ports.FollowedChannel, ports.Pagination, error) {
	if first < 1 || first > 100 {
		first = 20
	}

	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("first", strconv.Itoa(first))
	if after != "" {
		params.Set("after", after)
	}

	var resp followsResponse
	if err := t.doHelix(ctx, "GET", helixURL("/channels/followed", params), accessToken, &resp); err != nil {
		return nil, ports.Pagination{}, err
	}

	out := make([]ports.FollowedChannel, 0, len(resp.Data))
	for _, f := range resp.Data {
		login := strings.ToLower(f.BroadcasterLogin)
		out = append(out, ports.FollowedChannel{
			BroadcasterID:    f.BroadcasterID,
			BroadcasterLogin: login,
			BroadcasterName:  f.BroadcasterName,
			FollowedAt:       f.FollowedAt,
			StreamID:         stream.ItemID(stream.PlatformTwitch, login),
		})
	}

	return out, ports.Pagination{Cursor: resp.Pagination.Cursor}, nil
}
