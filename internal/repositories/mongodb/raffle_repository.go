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

// Compile-time check to ensure RaffleRepository implements the interface
var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// RaffleRepository handles MongoDB operations for Raffle
type RaffleRepository struct {
	collection *mongo.Collection
}

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) *RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Create inserts a new raffle
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, raffle)
	return err
}

// FindByID finds a raffle by ID
func (r *RaffleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raffle)
	if err != nil {
		return nil, translateErr(err)
	}
	return &raffle, nil
}

// FindByIDAndUser finds a raffle by ID scoped to its owner. A raffle that
// exists but belongs to someone else is indistinguishable from a missing one.
func (r *RaffleRepository) FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&raffle)
	if err != nil {
		return nil, translateErr(err)
	}
	return &raffle, nil
}

// FindByPublicID finds a raffle by its opaque public identifier
func (r *RaffleRepository) FindByPublicID(ctx context.Context, publicID string) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"public_id": publicID}).Decode(&raffle)
	if err != nil {
		return nil, translateErr(err)
	}
	return &raffle, nil
}

// FindByUser finds all raffles owned by a user, newest first
func (r *RaffleRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Raffle, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raffles []*models.Raffle
	if err := cursor.All(ctx, &raffles); err != nil {
		return nil, err
	}
	return raffles, nil
}

// Update replaces a raffle document
func (r *RaffleRepository) Update(ctx context.Context, raffle *models.Raffle) error {
	raffle.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": raffle.ID}, raffle)
	return err
}

// Delete removes a raffle
func (r *RaffleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
