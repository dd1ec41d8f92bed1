package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/middleware"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/services"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateUserRequest is the body for PATCH /users/:id; only display
// preferences can be changed.
type UpdateUserRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}

// UpdateUser handles PATCH /users/:id. Users may only update their own
// preferences; the path id accepts either the record id or the Twitch uid.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	current, _ := c.Get(middleware.ContextUser)
	user, ok := current.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	id := c.Param("id")
	if id != user.ID.Hex() && id != user.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var request UpdateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.userService.UpdatePreferences(c.Request.Context(), user.ID, services.UserPatch{
		Theme:    request.Theme,
		Language: request.Language,
	})
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}
