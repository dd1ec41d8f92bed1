package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sorteoslive/sorteos-backend/internal/config"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"github.com/sorteoslive/sorteos-backend/internal/utils"
	"github.com/sorteoslive/sorteos-backend/pkg/twitchapi"
)

const providerTwitch = "twitch"

// AuthService defines the interface for Twitch OAuth authentication
type AuthService interface {
	// AuthorizeURL returns the Twitch authorize redirect target.
	AuthorizeURL(state string) string
	// HandleCallback exchanges the authorization code, upserts the user
	// and returns the user together with a signed session JWT.
	HandleCallback(ctx context.Context, code string) (*models.User, string, error)
}

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles the Twitch OAuth login flow
type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	twitch   *twitchapi.Client
	cfg      *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(userRepo repositories.UserRepository, twitch *twitchapi.Client, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		twitch:   twitch,
		cfg:      cfg,
	}
}

// AuthorizeURL returns the Twitch authorize redirect target
func (s *AuthServiceImpl) AuthorizeURL(state string) string {
	return s.twitch.AuthorizeURL(state)
}

// HandleCallback completes the OAuth flow: code exchange, profile fetch,
// user upsert and session token issuance. The helix bearer token is stored
// on the user so the proxy endpoints can pass it through later.
func (s *AuthServiceImpl) HandleCallback(ctx context.Context, code string) (*models.User, string, error) {
	token, err := s.twitch.ExchangeCode(ctx, code)
	if err != nil {
		slog.Error("Twitch code exchange failed", "error", err)
		return nil, "", err
	}

	profile, err := s.twitch.GetAuthenticatedUser(ctx, token.AccessToken)
	if err != nil {
		slog.Error("Twitch profile fetch failed", "error", err)
		return nil, "", err
	}

	user, err := s.userRepo.FindByProviderUID(ctx, providerTwitch, profile.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}
	if user == nil || errors.Is(err, ErrNotFound) {
		user = &models.User{
			UID:      profile.ID,
			Provider: providerTwitch,
			Theme:    "dark",
			Language: "es",
		}
		user.Email = profile.Email
		user.Username = profile.DisplayName
		user.Image = profile.ProfileImageURL
		user.Token = token.AccessToken
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", err
		}
		slog.Info("New user registered via Twitch", "uid", profile.ID, "username", profile.DisplayName)
	} else {
		// Refresh profile data and bearer token on every login.
		user.Email = profile.Email
		user.Username = profile.DisplayName
		user.Image = profile.ProfileImageURL
		user.Token = token.AccessToken
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, "", err
		}
	}

	session, err := utils.GenerateJWT(user.ID.Hex(), s.cfg)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err, "userId", user.ID)
		return nil, "", err
	}
	return user, session, nil
}
