package mongodb

import (
	"context"
	"time"

	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure WinnerRepository implements the interface
var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// WinnerRepository handles MongoDB operations for Winner records.
// The collection is append-only; records are only ever removed when the
// parent raffle is cancelled.
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) *WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create appends a new winner record
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.ID = primitive.NewObjectID()
	winner.CreatedAt = time.Now()
	winner.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, winner)
	return err
}

// FindByRaffleID finds all winner records for a raffle in creation order
func (r *WinnerRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"raffle_id": raffleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// FindLatestByRaffleID finds the most recently created record for a raffle
func (r *WinnerRepository) FindLatestByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (*models.Winner, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"raffle_id": raffleID}, opts).Decode(&winner)
	if err != nil {
		return nil, translateErr(err)
	}
	return &winner, nil
}

// DeleteByRaffleID removes all records for a raffle (cascade on cancellation)
func (r *WinnerRepository) DeleteByRaffleID(ctx context.Context, raffleID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"raffle_id": raffleID})
	return err
}
