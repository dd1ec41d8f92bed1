package repositories

import (
	"context"
	"errors"

	"github.com/sorteoslive/sorteos-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist. Ownership
// mismatches surface as the same error so non-owners cannot probe for
// existence.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByProviderUID(ctx context.Context, provider, uid string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// RaffleRepository defines the interface for raffle data operations
type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	// FindByIDAndUser scopes the lookup to the owner; a miss on either
	// criterion is ErrNotFound.
	FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Raffle, error)
	FindByPublicID(ctx context.Context, publicID string) (*models.Raffle, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Raffle, error)
	Update(ctx context.Context, raffle *models.Raffle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WinnerRepository defines the interface for winner record operations.
// The winners collection is append-only: there is deliberately no Update.
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error)
	FindLatestByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (*models.Winner, error)
	DeleteByRaffleID(ctx context.Context, raffleID primitive.ObjectID) error
}
