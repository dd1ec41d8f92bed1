package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/services"
)

// PublicRaffleHandler serves the unauthenticated raffle projection used
// by the overlay.
type PublicRaffleHandler struct {
	raffleService services.RaffleService
}

// NewPublicRaffleHandler creates a new PublicRaffleHandler
func NewPublicRaffleHandler(raffleService services.RaffleService) *PublicRaffleHandler {
	return &PublicRaffleHandler{
		raffleService: raffleService,
	}
}

// GetPublicRaffle handles GET /public/raffles/:public_id
func (h *PublicRaffleHandler) GetPublicRaffle(c *gin.Context) {
	raffle, err := h.raffleService.GetPublicRaffle(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, raffle)
}
