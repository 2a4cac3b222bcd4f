package api

type streamsResponse struct {
	Data []struct {
		ID          string   `json:"id"`
		UserID      string   `json:"user_id"`
		UserLogin   string   `json:"user_login"`
		UserName    string   `json:"user_name"`
		GameID      string   `json:"game_id"`
		GameName    string   `json:"game_name"`
		Title       string   `json:"title"`
		Tags        []string `json:"tags"`
		ViewerCount int      `json:"viewer_count"`
		StartedAt   string   `json:"started_at"`
		Language    string   `json:"language"`
	} `json:"data"`
}

type usersResponse struct {
	Data []struct {
		ID              string `json:"id"`
		Login           string `json:"login"`
		DisplayName     string `json:"display_name"`
		ProfileImageURL string `json:"profile_image_url"`
		CreatedAt       string `json:"created_at"`
	} `json:"data"`
}

type gamesResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		BoxArtURL string `json:"box_art_url"`
	} `json:"data"`
}

type followsResponse struct {
	Data []struct {
		BroadcasterID    string `json:"broadcaster_id"`
		BroadcasterLogin string `json:"broadcaster_login"`
		BroadcasterName  string `json:"broadcaster_name"`
		FollowedAt       string `json:"followed_at"`
	} `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
}

type validateResponse struct {
	ClientID  string   `json:"client_id"`
	Login     string   `json:"login"`
	UserID    string   `json:"user_id"`
	Scopes    []string `json:"scopes"`
	ExpiresIn int      `json:"expires_in"`
}
