package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/middleware"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/services"
)

// TwitchHandler proxies helix lookups for the host console
type TwitchHandler struct {
	twitchService *services.TwitchService
}

// NewTwitchHandler creates a new TwitchHandler
func NewTwitchHandler(twitchService *services.TwitchService) *TwitchHandler {
	return &TwitchHandler{
		twitchService: twitchService,
	}
}

// GetChatters handles GET /twitch/chatters
func (h *TwitchHandler) GetChatters(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}
	chatters, err := h.twitchService.GetChatters(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Twitch API request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chatters": chatters})
}

// GetSubscribers handles GET /twitch/subscribers
func (h *TwitchHandler) GetSubscribers(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}
	subs, err := h.twitchService.GetSubscribers(c.Request.Context(), user, c.Query("broadcaster_id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Twitch API request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs})
}

// GetFollowers handles GET /twitch/followers
func (h *TwitchHandler) GetFollowers(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}
	followers, err := h.twitchService.GetFollowers(c.Request.Context(), user, c.Query("broadcaster_id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Twitch API request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

// GetModeratedChannels handles GET /twitch/moderated_channels
func (h *TwitchHandler) GetModeratedChannels(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}
	channels, err := h.twitchService.GetModeratedChannels(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Twitch API request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// currentUser returns the user model loaded by the auth middleware.
func currentUser(c *gin.Context) *models.User {
	raw, _ := c.Get(middleware.ContextUser)
	user, _ := raw.(*models.User)
	return user
}
