package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure RaffleServiceImpl implements RaffleService
var _ RaffleService = (*RaffleServiceImpl)(nil)

// RafflePatch is a partial update for a raffle. Nil fields are left
// untouched. There is deliberately no transition-legality check on Status:
// the host console is the only writer and the server trusts it.
type RafflePatch struct {
	Title        *string
	Status       *models.RaffleStatus
	Participants *[]string
}

// SpinOptions carries the host-configured selection rules for one spin.
type SpinOptions struct {
	// Subscribers is the set of usernames the host recognizes as
	// subscribers at spin time (matched case-insensitively).
	Subscribers []string
	// Multiplier is the number of weighted entries a subscriber gets.
	// Values outside [1, 10] are clamped.
	Multiplier int
}

// RaffleService defines the raffle lifecycle operations
type RaffleService interface {
	CreateRaffle(ctx context.Context, userID primitive.ObjectID, title string, participants []string, status models.RaffleStatus) (*models.Raffle, error)
	GetRaffles(ctx context.Context, userID primitive.ObjectID) ([]*models.Raffle, error)
	GetRaffle(ctx context.Context, userID, raffleID primitive.ObjectID) (*models.Raffle, error)
	UpdateRaffle(ctx context.Context, userID, raffleID primitive.ObjectID, patch RafflePatch) (*models.Raffle, error)
	CancelRaffle(ctx context.Context, userID, raffleID primitive.ObjectID) error
	RegisterWinner(ctx context.Context, userID, raffleID primitive.ObjectID, username string, status models.WinnerStatus, claimedAt *time.Time) (*models.Winner, error)
	Spin(ctx context.Context, userID, raffleID primitive.ObjectID, opts SpinOptions) (*models.Winner, error)
	GetPublicRaffle(ctx context.Context, publicID string) (*models.PublicRaffle, error)
}

// RaffleServiceImpl handles raffle lifecycle business logic
type RaffleServiceImpl struct {
	raffleRepo repositories.RaffleRepository
	winnerRepo repositories.WinnerRepository
	userRepo   repositories.UserRepository
}

// NewRaffleService creates a new RaffleServiceImpl
func NewRaffleService(
	raffleRepo repositories.RaffleRepository,
	winnerRepo repositories.WinnerRepository,
	userRepo repositories.UserRepository,
) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo: raffleRepo,
		winnerRepo: winnerRepo,
		userRepo:   userRepo,
	}
}

// CreateRaffle creates a raffle and allocates its immutable public id.
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, userID primitive.ObjectID, title string, participants []string, status models.RaffleStatus) (*models.Raffle, error) {
	if strings.TrimSpace(title) == "" {
		return nil, newFieldError("title", "can't be blank")
	}
	if status == "" {
		status = models.RaffleStatusCreated
	}

	raffle := &models.Raffle{
		UserID:       userID,
		Title:        title,
		Participants: dedupeNames(participants),
		Status:       status,
		PublicID:     uuid.NewString(),
	}
	if err := s.raffleRepo.Create(ctx, raffle); err != nil {
		slog.Error("Failed to create raffle", "error", err, "userId", userID)
		return nil, err
	}

	slog.Info("Raffle created", "raffleId", raffle.ID, "publicId", raffle.PublicID, "title", title)
	return raffle, nil
}

// GetRaffles returns all raffles owned by the user, winners nested.
func (s *RaffleServiceImpl) GetRaffles(ctx context.Context, userID primitive.ObjectID) ([]*models.Raffle, error) {
	raffles, err := s.raffleRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, raffle := range raffles {
		winners, err := s.winnerRepo.FindByRaffleID(ctx, raffle.ID)
		if err != nil {
			return nil, err
		}
		raffle.Winners = winners
	}
	return raffles, nil
}

// GetRaffle returns one raffle owned by the user, winners nested.
func (s *RaffleServiceImpl) GetRaffle(ctx context.Context, userID, raffleID primitive.ObjectID) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindByIDAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, err
	}
	winners, err := s.winnerRepo.FindByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, err
	}
	raffle.Winners = winners
	return raffle, nil
}

// UpdateRaffle applies a partial patch. The public id is never touched,
// regardless of what the caller sends.
func (s *RaffleServiceImpl) UpdateRaffle(ctx context.Context, userID, raffleID primitive.ObjectID, patch RafflePatch) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindByIDAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, newFieldError("title", "can't be blank")
		}
		raffle.Title = *patch.Title
	}
	if patch.Status != nil {
		raffle.Status = *patch.Status
	}
	if patch.Participants != nil {
		raffle.Participants = dedupeNames(*patch.Participants)
	}

	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		slog.Error("Failed to update raffle", "error", err, "raffleId", raffleID)
		return nil, err
	}
	return raffle, nil
}

// CancelRaffle hard-deletes a raffle and cascades to its winner records.
func (s *RaffleServiceImpl) CancelRaffle(ctx context.Context, userID, raffleID primitive.ObjectID) error {
	raffle, err := s.raffleRepo.FindByIDAndUser(ctx, raffleID, userID)
	if err != nil {
		return err
	}
	if err := s.winnerRepo.DeleteByRaffleID(ctx, raffle.ID); err != nil {
		return err
	}
	if err := s.raffleRepo.Delete(ctx, raffle.ID); err != nil {
		return err
	}
	slog.Info("Raffle cancelled", "raffleId", raffleID)
	return nil
}

// RegisterWinner appends a winner record. A record with status "won" (and
// only "won") also flips the raffle to completed; lost, al_agua,
// pending_reveal and waiting_claim never change the raffle status.
func (s *RaffleServiceImpl) RegisterWinner(ctx context.Context, userID, raffleID primitive.ObjectID, username string, status models.WinnerStatus, claimedAt *time.Time) (*models.Winner, error) {
	raffle, err := s.raffleRepo.FindByIDAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, newFieldError("username", "can't be blank")
	}

	winner := &models.Winner{
		RaffleID:  raffle.ID,
		Username:  username,
		Status:    status,
		ClaimedAt: claimedAt,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		slog.Error("Failed to register winner", "error", err, "raffleId", raffleID)
		return nil, err
	}

	if status == models.WinnerStatusWon {
		raffle.Status = models.RaffleStatusCompleted
		if err := s.raffleRepo.Update(ctx, raffle); err != nil {
			slog.Error("Failed to mark raffle completed", "error", err, "raffleId", raffleID)
			return nil, err
		}
	}

	slog.Info("Winner registered", "raffleId", raffleID, "username", username, "status", status)
	return winner, nil
}

// Spin runs the winner selection and persists the outcome immediately as a
// pending_reveal record, before any client animation completes, so remote
// views can discover it by polling even if the animation stalls.
func (s *RaffleServiceImpl) Spin(ctx context.Context, userID, raffleID primitive.ObjectID, opts SpinOptions) (*models.Winner, error) {
	raffle, err := s.raffleRepo.FindByIDAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, err
	}

	winners, err := s.winnerRepo.FindByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, err
	}

	eligible := eligiblePool(raffle.Participants, winners)
	pool := buildWeightedPool(eligible, opts.Subscribers, opts.Multiplier)
	if len(pool) == 0 {
		return nil, ErrNoEligibleParticipants
	}

	chosen := pool[rand.Intn(len(pool))]

	winner := &models.Winner{
		RaffleID: raffle.ID,
		Username: chosen,
		Status:   models.WinnerStatusPendingReveal,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		slog.Error("Failed to persist spin result", "error", err, "raffleId", raffleID)
		return nil, err
	}

	raffle.Status = models.RaffleStatusSpinning
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		slog.Error("Failed to mark raffle spinning", "error", err, "raffleId", raffleID)
		return nil, err
	}

	slog.Info("Spin executed", "raffleId", raffleID, "poolSize", len(pool), "eligible", len(eligible), "winner", chosen)
	return winner, nil
}

// GetPublicRaffle returns the unauthenticated projection for a public id.
func (s *RaffleServiceImpl) GetPublicRaffle(ctx context.Context, publicID string) (*models.PublicRaffle, error) {
	raffle, err := s.raffleRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	host, err := s.userRepo.FindByID(ctx, raffle.UserID)
	if err != nil {
		return nil, err
	}
	winners, err := s.winnerRepo.FindByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, err
	}

	projected := make([]models.PublicWinner, 0, len(winners))
	for _, w := range winners {
		projected = append(projected, w.Public())
	}

	public := &models.PublicRaffle{
		Title:        raffle.Title,
		Status:       raffle.Status,
		CreatedAt:    raffle.CreatedAt,
		Participants: raffle.Participants,
		Winners:      projected,
		Host: models.PublicHost{
			Username: host.Username,
			Image:    host.Image,
		},
	}
	latest, err := s.winnerRepo.FindLatestByRaffleID(ctx, raffle.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if latest != nil {
		pw := latest.Public()
		public.LatestWinner = &pw
	}
	return public, nil
}

// --- Selection helpers ---

// dedupeNames suppresses duplicate display names while preserving order.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// eligiblePool returns participants minus usernames with at least one
// "won" record. Records with al_agua or lost status do not exclude anyone:
// forfeited and timed-out participants stay eligible for later rounds.
func eligiblePool(participants []string, winners []*models.Winner) []string {
	won := make(map[string]bool)
	for _, w := range winners {
		if w.Status == models.WinnerStatusWon {
			won[strings.ToLower(w.Username)] = true
		}
	}

	var eligible []string
	for _, p := range participants {
		if !won[strings.ToLower(p)] {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// buildWeightedPool gives every eligible participant one entry plus
// (multiplier - 1) extra entries for recognized subscribers. The pool is
// built by simple repetition; fine at chat-raffle scale.
func buildWeightedPool(eligible, subscribers []string, multiplier int) []string {
	if multiplier < 1 {
		multiplier = 1
	}
	if multiplier > 10 {
		multiplier = 10
	}

	subs := make(map[string]bool, len(subscribers))
	for _, s := range subscribers {
		subs[strings.ToLower(s)] = true
	}

	var pool []string
	for _, p := range eligible {
		pool = append(pool, p)
		if subs[strings.ToLower(p)] {
			for i := 1; i < multiplier; i++ {
				pool = append(pool, p)
			}
		}
	}
	return pool
}
