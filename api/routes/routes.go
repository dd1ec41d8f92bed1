package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/config"
	"github.com/sorteoslive/sorteos-backend/internal/handlers"
	"github.com/sorteoslive/sorteos-backend/internal/middleware"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
)

// Handlers bundles the constructed handlers for router setup
type Handlers struct {
	Auth         *handlers.AuthHandler
	Raffle       *handlers.RaffleHandler
	PublicRaffle *handlers.PublicRaffleHandler
	Twitch       *handlers.TwitchHandler
	User         *handlers.UserHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, userRepo repositories.UserRepository) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.GET("/twitch/login", h.Auth.Login)
		auth.GET("/twitch/callback", h.Auth.Callback)
		auth.GET("/failure", h.Auth.Failure)
	}

	router.GET("/api/public/raffles/:public_id", h.PublicRaffle.GetPublicRaffle)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.JWTAuthMiddleware(cfg, userRepo))
	{
		raffles := protected.Group("/raffles")
		{
			raffles.GET("", h.Raffle.GetRaffles)
			raffles.POST("", h.Raffle.CreateRaffle)
			raffles.GET("/:id", h.Raffle.GetRaffle)
			raffles.PATCH("/:id", h.Raffle.UpdateRaffle)
			raffles.DELETE("/:id", h.Raffle.DeleteRaffle)
			raffles.POST("/:id/register_winner", h.Raffle.RegisterWinner)
			raffles.POST("/:id/spin", h.Raffle.Spin)
		}

		twitch := protected.Group("/twitch")
		{
			twitch.GET("/chatters", h.Twitch.GetChatters)
			twitch.GET("/subscribers", h.Twitch.GetSubscribers)
			twitch.GET("/followers", h.Twitch.GetFollowers)
			twitch.GET("/moderated_channels", h.Twitch.GetModeratedChannels)
		}

		protected.PATCH("/users/:id", h.User.UpdateUser)
	}

	return router
}
