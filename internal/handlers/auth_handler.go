package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/config"
	"github.com/sorteoslive/sorteos-backend/internal/services"
	"github.com/sorteoslive/sorteos-backend/internal/utils"
)

const stateCookie = "oauth_state"

// AuthHandler handles the Twitch OAuth flow
type AuthHandler struct {
	authService services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Login handles GET /auth/twitch/login and redirects to the Twitch
// authorize page.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := utils.GenerateRandomString(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start login"})
		return
	}
	c.SetCookie(stateCookie, state, 300, "/", "", true, true)
	c.Redirect(http.StatusFound, h.authService.AuthorizeURL(state))
}

// Callback handles GET /auth/twitch/callback. On success the browser is
// sent back to the frontend with the session token and profile in the
// query string, which is what the console expects.
func (h *AuthHandler) Callback(c *gin.Context) {
	if c.Query("error") != "" {
		h.failure(c)
		return
	}

	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		slog.Warn("oauth state mismatch")
		h.failure(c)
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", true, true)

	user, token, err := h.authService.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		slog.Error("oauth callback failed", "error", err)
		h.failure(c)
		return
	}

	query := url.Values{}
	query.Set("uid", user.UID)
	query.Set("username", user.Username)
	query.Set("image", user.Image)
	query.Set("token", token)
	query.Set("theme", user.Theme)
	query.Set("language", user.Language)
	c.Redirect(http.StatusFound, h.cfg.Server.FrontendURL+"/auth/callback?"+query.Encode())
}

// Failure handles GET /auth/failure
func (h *AuthHandler) Failure(c *gin.Context) {
	h.failure(c)
}

func (h *AuthHandler) failure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.Server.FrontendURL+"/auth/callback?error=auth_failed")
}
