package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Scopes requested during the OAuth authorize redirect. They cover chat
// presence, subscriptions, followers and moderated channels for the proxy
// endpoints.
const Scopes = "user:read:email moderator:read:chatters channel:read:subscriptions moderator:read:followers user:read:moderated_channels"

// Client represents a Twitch helix API client
type Client struct {
	BaseURL      string
	AuthBaseURL  string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	MockAPI      bool
	client       *http.Client
}

// Token represents an OAuth token response
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Profile represents the authenticated user returned by /users
type Profile struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Chatter represents a viewer present in chat
type Chatter struct {
	Username string `json:"username"`
	Type     string `json:"type"`
}

// Subscriber represents a channel subscriber
type Subscriber struct {
	Username string `json:"username"`
	Type     string `json:"type"`
	Tier     string `json:"tier"`
}

// Follower represents a channel follower
type Follower struct {
	Username string `json:"username"`
	Type     string `json:"type"`
}

// Channel represents a channel the user moderates
type Channel struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Login    string `json:"login"`
}

// NewClient creates a new Twitch API client
func NewClient(baseURL, authBaseURL, clientID, clientSecret, redirectURI string, mockAPI bool) *Client {
	return &Client{
		BaseURL:      baseURL,
		AuthBaseURL:  authBaseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		MockAPI:      mockAPI,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the OAuth authorize redirect target.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", Scopes)
	q.Set("state", state)
	return c.AuthBaseURL + "/oauth2/authorize?" + q.Encode()
}

// ExchangeCode exchanges an authorization code for a bearer token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if c.MockAPI {
		return &Token{AccessToken: "mock-token", ExpiresIn: 3600, TokenType: "bearer"}, nil
	}

	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthBaseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("twitch token exchange failed: %d %s", resp.StatusCode, string(body))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetAuthenticatedUser fetches the profile of the token's owner.
func (c *Client) GetAuthenticatedUser(ctx context.Context, token string) (*Profile, error) {
	if c.MockAPI {
		return &Profile{ID: "1234567", Login: "mockstreamer", DisplayName: "MockStreamer", Email: "mock@example.com"}, nil
	}

	var payload struct {
		Data []Profile `json:"data"`
	}
	if err := c.get(ctx, token, "/users", &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("twitch returned no user for token")
	}
	return &payload.Data[0], nil
}

// GetChatters fetches the viewers currently present in the broadcaster's chat.
func (c *Client) GetChatters(ctx context.Context, token, broadcasterID string) ([]Chatter, error) {
	if c.MockAPI {
		return mockChatters(), nil
	}

	var payload struct {
		Data []struct {
			UserName string `json:"user_name"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/chat/chatters?broadcaster_id=%s&moderator_id=%s&first=100", broadcasterID, broadcasterID)
	if err := c.get(ctx, token, path, &payload); err != nil {
		return nil, err
	}

	chatters := make([]Chatter, 0, len(payload.Data))
	for _, d := range payload.Data {
		chatters = append(chatters, Chatter{Username: d.UserName, Type: "viewer"})
	}
	return chatters, nil
}

// GetSubscribers fetches the broadcaster's subscribers.
func (c *Client) GetSubscribers(ctx context.Context, token, broadcasterID string) ([]Subscriber, error) {
	if c.MockAPI {
		return []Subscriber{{Username: "mocksub", Type: "subscriber", Tier: "1000"}}, nil
	}

	var payload struct {
		Data []struct {
			UserName string `json:"user_name"`
			Tier     string `json:"tier"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/subscriptions?broadcaster_id=%s&first=100", broadcasterID)
	if err := c.get(ctx, token, path, &payload); err != nil {
		return nil, err
	}

	subs := make([]Subscriber, 0, len(payload.Data))
	for _, d := range payload.Data {
		subs = append(subs, Subscriber{Username: d.UserName, Type: "subscriber", Tier: d.Tier})
	}
	return subs, nil
}

// GetFollowers fetches the broadcaster's followers.
func (c *Client) GetFollowers(ctx context.Context, token, broadcasterID string) ([]Follower, error) {
	if c.MockAPI {
		return []Follower{{Username: "mockfollower", Type: "follower"}}, nil
	}

	var payload struct {
		Data []struct {
			UserName string `json:"user_name"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/channels/followers?broadcaster_id=%s&moderator_id=%s&first=100", broadcasterID, broadcasterID)
	if err := c.get(ctx, token, path, &payload); err != nil {
		return nil, err
	}

	followers := make([]Follower, 0, len(payload.Data))
	for _, d := range payload.Data {
		followers = append(followers, Follower{Username: d.UserName, Type: "follower"})
	}
	return followers, nil
}

// GetModeratedChannels fetches the channels the user moderates.
func (c *Client) GetModeratedChannels(ctx context.Context, token, userID string) ([]Channel, error) {
	if c.MockAPI {
		return []Channel{{ID: "7654321", Username: "MockChannel", Login: "mockchannel"}}, nil
	}

	var payload struct {
		Data []struct {
			BroadcasterID    string `json:"broadcaster_id"`
			BroadcasterName  string `json:"broadcaster_name"`
			BroadcasterLogin string `json:"broadcaster_login"`
		} `json:"data"`
	}
	path := "/moderation/channels?user_id=" + userID
	if err := c.get(ctx, token, path, &payload); err != nil {
		return nil, err
	}

	channels := make([]Channel, 0, len(payload.Data))
	for _, d := range payload.Data {
		channels = append(channels, Channel{ID: d.BroadcasterID, Username: d.BroadcasterName, Login: d.BroadcasterLogin})
	}
	return channels, nil
}

// get performs an authenticated helix GET with the user's bearer token
// passed through verbatim.
func (c *Client) get(ctx context.Context, token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-Id", c.ClientID)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twitch API error: %d %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mockChatters returns a small deterministic chat roster for local
// development without Twitch credentials.
func mockChatters() []Chatter {
	names := []string{"ana_live", "betoGamer", "carla_22", "don_ramon", "elmago"}
	chatters := make([]Chatter, 0, len(names))
	for _, n := range names {
		chatters = append(chatters, Chatter{Username: n, Type: "viewer"})
	}
	return chatters
}
