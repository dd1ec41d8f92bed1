package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/middleware"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleHandler handles raffle-related HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

// CreateRaffleRequest is the body for POST /raffles
type CreateRaffleRequest struct {
	Title        string              `json:"title"`
	Participants []string            `json:"participants"`
	Status       models.RaffleStatus `json:"status"`
}

// UpdateRaffleRequest is the body for PATCH /raffles/:id; nil fields are
// left untouched
type UpdateRaffleRequest struct {
	Title        *string              `json:"title"`
	Status       *models.RaffleStatus `json:"status"`
	Participants *[]string            `json:"participants"`
}

// RegisterWinnerRequest is the body for POST /raffles/:id/register_winner
type RegisterWinnerRequest struct {
	Username  string              `json:"username"`
	Status    models.WinnerStatus `json:"status"`
	ClaimedAt *time.Time          `json:"claimed_at"`
}

// SpinRequest is the body for POST /raffles/:id/spin
type SpinRequest struct {
	Subscribers []string `json:"subscribers"`
	Multiplier  int      `json:"multiplier"`
}

// CreateRaffle handles POST /raffles
func (h *RaffleHandler) CreateRaffle(c *gin.Context) {
	var request CreateRaffleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.CreateRaffle(c.Request.Context(), currentUserID(c), request.Title, request.Participants, request.Status)
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

// GetRaffles handles GET /raffles
func (h *RaffleHandler) GetRaffles(c *gin.Context) {
	raffles, err := h.raffleService.GetRaffles(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffles)
}

// GetRaffle handles GET /raffles/:id
func (h *RaffleHandler) GetRaffle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	raffle, err := h.raffleService.GetRaffle(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// UpdateRaffle handles PATCH /raffles/:id
func (h *RaffleHandler) UpdateRaffle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	var request UpdateRaffleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.UpdateRaffle(c.Request.Context(), currentUserID(c), id, services.RafflePatch{
		Title:        request.Title,
		Status:       request.Status,
		Participants: request.Participants,
	})
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// DeleteRaffle handles DELETE /raffles/:id
func (h *RaffleHandler) DeleteRaffle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	if err := h.raffleService.CancelRaffle(c.Request.Context(), currentUserID(c), id); err != nil {
		respondRaffleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterWinner handles POST /raffles/:id/register_winner
func (h *RaffleHandler) RegisterWinner(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	var request RegisterWinnerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winner, err := h.raffleService.RegisterWinner(c.Request.Context(), currentUserID(c), id, request.Username, request.Status, request.ClaimedAt)
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, winner)
}

// Spin handles POST /raffles/:id/spin
func (h *RaffleHandler) Spin(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	var request SpinRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winner, err := h.raffleService.Spin(c.Request.Context(), currentUserID(c), id, services.SpinOptions{
		Subscribers: request.Subscribers,
		Multiplier:  request.Multiplier,
	})
	if err != nil {
		respondRaffleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, winner)
}

// currentUserID returns the authenticated user's id set by the auth
// middleware.
func currentUserID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(middleware.ContextUserID)
	userID, _ := id.(primitive.ObjectID)
	return userID
}

// respondRaffleError maps service errors onto the HTTP error taxonomy:
// validation failures are 422 with field errors, unknown ids (including
// ownership mismatches) are 404, anything else is 500.
func respondRaffleError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
	case errors.Is(err, services.ErrNoEligibleParticipants):
		c.JSON(http.StatusConflict, gin.H{"error": "No eligible participants"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
