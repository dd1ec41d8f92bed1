package services

import (
	"context"
	"log/slog"

	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPatch is a partial update of a user's display preferences.
type UserPatch struct {
	Theme    *string
	Language *string
}

// UserService handles user-related business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdatePreferences updates a user's theme/language preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Theme != nil {
		user.Theme = *patch.Theme
	}
	if patch.Language != nil {
		user.Language = *patch.Language
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to update user preferences", "error", err, "userId", id)
		return nil, err
	}
	return user, nil
}
