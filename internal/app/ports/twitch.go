package ports

import (
	"context"

	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/domain/taxonomy"
)

// Profile is the authenticated user's public identity, as handed to the
// renderers by /api/auth/me.
type Profile struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// FollowedChannel is one entry of the user's follow list.
type FollowedChannel struct {
	BroadcasterID    string `json:"broadcasterId"`
	BroadcasterLogin string `json:"broadcasterLogin"`
	BroadcasterName  string `json:"broadcasterName"`
	FollowedAt       string `json:"followedAt"`
	StreamID         string `json:"streamId"` // canonical stream id for slot/filter matching
}

// Pagination is the provider's opaque forward cursor.
type Pagination struct {
	Cursor string `json:"cursor,omitempty"`
}

// UserTokens is an OAuth token pair held by a session.
type UserTokens struct {
	AccessToken  string
	RefreshToken string
	Scopes       []string
	ExpiresAtMs  int64
}

// TokenValidation is what the identity endpoint reports about a token.
type TokenValidation struct {
	Login  string
	UserID string
	Scopes []string
}

// TwitchPort is the helix proxy surface: app-token listing plus the user
// OAuth lifecycle.
type TwitchPort interface {
	StreamsByGame(ctx context.Context, name string, first int) ([]stream.Item, error)
	Categories(ctx context.Context, first int) ([]taxonomy.Category, error)

	AuthorizeURL(state, returnTo string) string
	ExchangeCode(ctx context.Context, code string) (*UserTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*UserTokens, error)
	ValidateToken(ctx context.Context, accessToken string) (*TokenValidation, error)
	RevokeToken(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, accessToken string) (*Profile, error)
	FollowedChannels(ctx context.Context, accessToken, userID string, first int, after string) ([]FollowedChannel, Pagination, error)
}
