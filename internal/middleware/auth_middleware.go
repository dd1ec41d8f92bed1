package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sorteoslive/sorteos-backend/internal/config"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"github.com/sorteoslive/sorteos-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// ContextUserID is the gin context key holding the authenticated
	// user's ObjectID.
	ContextUserID = "userID"
	// ContextUser is the gin context key holding the loaded user model.
	ContextUser = "currentUser"
)

// JWTAuthMiddleware validates the bearer session token and loads the
// authenticated user into the request context.
func JWTAuthMiddleware(cfg *config.Config, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		claims, err := utils.ValidateJWT(authHeader[len(bearerSchema):], cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUser, user)
		c.Next()
	}
}
