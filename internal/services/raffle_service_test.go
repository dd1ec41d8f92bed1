package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sorteoslive/sorteos-backend/internal/models"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory fakes ---

type fakeRaffleRepo struct {
	raffles map[primitive.ObjectID]*models.Raffle
}

func newFakeRaffleRepo() *fakeRaffleRepo {
	return &fakeRaffleRepo{raffles: make(map[primitive.ObjectID]*models.Raffle)}
}

func (f *fakeRaffleRepo) Create(_ context.Context, raffle *models.Raffle) error {
	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = raffle.CreatedAt
	copied := *raffle
	f.raffles[raffle.ID] = &copied
	return nil
}

func (f *fakeRaffleRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	if r, ok := f.raffles[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRaffleRepo) FindByIDAndUser(_ context.Context, id, userID primitive.ObjectID) (*models.Raffle, error) {
	if r, ok := f.raffles[id]; ok && r.UserID == userID {
		copied := *r
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRaffleRepo) FindByPublicID(_ context.Context, publicID string) (*models.Raffle, error) {
	for _, r := range f.raffles {
		if r.PublicID == publicID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRaffleRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Raffle, error) {
	var out []*models.Raffle
	for _, r := range f.raffles {
		if r.UserID == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRaffleRepo) Update(_ context.Context, raffle *models.Raffle) error {
	if _, ok := f.raffles[raffle.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *raffle
	f.raffles[raffle.ID] = &copied
	return nil
}

func (f *fakeRaffleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.raffles[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.raffles, id)
	return nil
}

type fakeWinnerRepo struct {
	winners []*models.Winner
	clock   time.Time
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeWinnerRepo) Create(_ context.Context, winner *models.Winner) error {
	winner.ID = primitive.NewObjectID()
	f.clock = f.clock.Add(time.Second)
	winner.CreatedAt = f.clock
	winner.UpdatedAt = f.clock
	copied := *winner
	f.winners = append(f.winners, &copied)
	return nil
}

func (f *fakeWinnerRepo) FindByRaffleID(_ context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	var out []*models.Winner
	for _, w := range f.winners {
		if w.RaffleID == raffleID {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeWinnerRepo) FindLatestByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (*models.Winner, error) {
	all, _ := f.FindByRaffleID(ctx, raffleID)
	if len(all) == 0 {
		return nil, repositories.ErrNotFound
	}
	return all[len(all)-1], nil
}

func (f *fakeWinnerRepo) DeleteByRaffleID(_ context.Context, raffleID primitive.ObjectID) error {
	var kept []*models.Winner
	for _, w := range f.winners {
		if w.RaffleID != raffleID {
			kept = append(kept, w)
		}
	}
	f.winners = kept
	return nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByProviderUID(_ context.Context, provider, uid string) (*models.User, error) {
	for _, u := range f.users {
		if u.Provider == provider && u.UID == uid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func newTestService() (*RaffleServiceImpl, *fakeRaffleRepo, *fakeWinnerRepo, *fakeUserRepo) {
	raffleRepo := newFakeRaffleRepo()
	winnerRepo := newFakeWinnerRepo()
	userRepo := newFakeUserRepo()
	return NewRaffleService(raffleRepo, winnerRepo, userRepo), raffleRepo, winnerRepo, userRepo
}

// --- Tests ---

func TestCreateRaffle(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := primitive.NewObjectID()

	raffle, err := svc.CreateRaffle(context.Background(), userID, "Friday giveaway", []string{"ana", "beto", "ana", "carla"}, "")
	if err != nil {
		t.Fatalf("CreateRaffle: %v", err)
	}
	if raffle.PublicID == "" {
		t.Error("expected a public id to be assigned")
	}
	if raffle.Status != models.RaffleStatusCreated {
		t.Errorf("default status = %q, want %q", raffle.Status, models.RaffleStatusCreated)
	}
	if len(raffle.Participants) != 3 {
		t.Errorf("participants = %v, want duplicates removed", raffle.Participants)
	}
}

func TestCreateRaffleBlankTitle(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateRaffle(context.Background(), primitive.NewObjectID(), "   ", nil, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msgs := ve.Fields["title"]; len(msgs) == 0 || msgs[0] != "can't be blank" {
		t.Errorf("title errors = %v", ve.Fields)
	}
}

func TestUpdateRafflePreservesPublicID(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Original", []string{"ana"}, "")
	original := raffle.PublicID

	title := "Renamed"
	status := models.RaffleStatusActive
	updated, err := svc.UpdateRaffle(context.Background(), userID, raffle.ID, RafflePatch{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("UpdateRaffle: %v", err)
	}
	if updated.PublicID != original {
		t.Errorf("public id changed from %q to %q", original, updated.PublicID)
	}
	if updated.Title != "Renamed" || updated.Status != models.RaffleStatusActive {
		t.Errorf("patch not applied: %+v", updated)
	}
}

func TestUpdateRaffleWrongOwner(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), owner, "Mine", nil, "")

	title := "Stolen"
	_, err := svc.UpdateRaffle(context.Background(), primitive.NewObjectID(), raffle.ID, RafflePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestRegisterWinnerWonCompletesRaffle(t *testing.T) {
	svc, raffleRepo, _, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Spin night", []string{"ana"}, models.RaffleStatusActive)

	if _, err := svc.RegisterWinner(context.Background(), userID, raffle.ID, "ana", models.WinnerStatusWon, nil); err != nil {
		t.Fatalf("RegisterWinner: %v", err)
	}
	stored, _ := raffleRepo.FindByID(context.Background(), raffle.ID)
	if stored.Status != models.RaffleStatusCompleted {
		t.Errorf("raffle status = %q, want completed after won", stored.Status)
	}
}

func TestRegisterWinnerNonWonLeavesStatus(t *testing.T) {
	svc, raffleRepo, _, _ := newTestService()
	userID := primitive.NewObjectID()

	for _, status := range []models.WinnerStatus{
		models.WinnerStatusLost,
		models.WinnerStatusAlAgua,
		models.WinnerStatusPendingReveal,
		models.WinnerStatusWaitingClaim,
	} {
		raffle, _ := svc.CreateRaffle(context.Background(), userID, "Round", []string{"ana"}, models.RaffleStatusActive)
		if _, err := svc.RegisterWinner(context.Background(), userID, raffle.ID, "ana", status, nil); err != nil {
			t.Fatalf("RegisterWinner(%s): %v", status, err)
		}
		stored, _ := raffleRepo.FindByID(context.Background(), raffle.ID)
		if stored.Status != models.RaffleStatusActive {
			t.Errorf("status after %s = %q, want active unchanged", status, stored.Status)
		}
	}
}

func TestRegisterWinnerBlankUsername(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Spin", nil, "")

	_, err := svc.RegisterWinner(context.Background(), userID, raffle.ID, "", models.WinnerStatusWon, nil)
	if !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSpinPersistsPendingReveal(t *testing.T) {
	svc, raffleRepo, winnerRepo, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Spin", []string{"ana", "beto"}, models.RaffleStatusActive)

	winner, err := svc.Spin(context.Background(), userID, raffle.ID, SpinOptions{Multiplier: 1})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if winner.Status != models.WinnerStatusPendingReveal {
		t.Errorf("winner status = %q, want pending_reveal", winner.Status)
	}
	stored, _ := raffleRepo.FindByID(context.Background(), raffle.ID)
	if stored.Status != models.RaffleStatusSpinning {
		t.Errorf("raffle status = %q, want spinning", stored.Status)
	}
	records, _ := winnerRepo.FindByRaffleID(context.Background(), raffle.ID)
	if len(records) != 1 {
		t.Errorf("winner records = %d, want 1 persisted before any reveal", len(records))
	}
}

func TestSpinNoEligibleParticipants(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Empty", nil, models.RaffleStatusActive)

	_, err := svc.Spin(context.Background(), userID, raffle.ID, SpinOptions{})
	if !errors.Is(err, ErrNoEligibleParticipants) {
		t.Errorf("expected ErrNoEligibleParticipants, got %v", err)
	}
}

func TestSpinExcludesPriorWinners(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Rounds", []string{"Ana", "beto"}, models.RaffleStatusActive)

	// "ana" already won in a previous round; case must not matter.
	if _, err := svc.RegisterWinner(context.Background(), userID, raffle.ID, "ana", models.WinnerStatusWon, nil); err != nil {
		t.Fatalf("RegisterWinner: %v", err)
	}

	for i := 0; i < 20; i++ {
		winner, err := svc.Spin(context.Background(), userID, raffle.ID, SpinOptions{})
		if err != nil {
			t.Fatalf("Spin: %v", err)
		}
		if winner.Username != "beto" {
			t.Fatalf("spin selected %q despite prior win", winner.Username)
		}
	}
}

func TestGetPublicRaffle(t *testing.T) {
	svc, _, _, userRepo := newTestService()
	host := &models.User{Username: "streamer", Image: "https://cdn/img.png", Email: "secret@example.com", Token: "helix-token"}
	_ = userRepo.Create(context.Background(), host)

	raffle, _ := svc.CreateRaffle(context.Background(), host.ID, "Public spin", []string{"ana", "beto"}, models.RaffleStatusActive)
	claim := time.Now().Add(5 * time.Minute)
	_, _ = svc.RegisterWinner(context.Background(), host.ID, raffle.ID, "ana", models.WinnerStatusWaitingClaim, &claim)

	public, err := svc.GetPublicRaffle(context.Background(), raffle.PublicID)
	if err != nil {
		t.Fatalf("GetPublicRaffle: %v", err)
	}
	if public.Title != "Public spin" || public.Host.Username != "streamer" {
		t.Errorf("unexpected projection: %+v", public)
	}
	if public.LatestWinner == nil || public.LatestWinner.Status != models.WinnerStatusWaitingClaim {
		t.Errorf("latest winner = %+v, want waiting_claim", public.LatestWinner)
	}
	if len(public.Winners) != 1 {
		t.Errorf("winners = %d, want 1", len(public.Winners))
	}
}

func TestGetPublicRaffleUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.GetPublicRaffle(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelRaffleCascades(t *testing.T) {
	svc, raffleRepo, winnerRepo, _ := newTestService()
	userID := primitive.NewObjectID()
	raffle, _ := svc.CreateRaffle(context.Background(), userID, "Doomed", []string{"ana"}, "")
	_, _ = svc.RegisterWinner(context.Background(), userID, raffle.ID, "ana", models.WinnerStatusLost, nil)

	if err := svc.CancelRaffle(context.Background(), userID, raffle.ID); err != nil {
		t.Fatalf("CancelRaffle: %v", err)
	}
	if _, err := raffleRepo.FindByID(context.Background(), raffle.ID); !errors.Is(err, ErrNotFound) {
		t.Error("raffle still present after cancel")
	}
	records, _ := winnerRepo.FindByRaffleID(context.Background(), raffle.ID)
	if len(records) != 0 {
		t.Errorf("winner records survived cancel: %d", len(records))
	}
}

func TestEligiblePoolAlAguaStaysEligible(t *testing.T) {
	participants := []string{"ana", "beto", "carla"}
	winners := []*models.Winner{
		{Username: "ana", Status: models.WinnerStatusAlAgua},
		{Username: "beto", Status: models.WinnerStatusLost},
		{Username: "carla", Status: models.WinnerStatusWon},
	}

	eligible := eligiblePool(participants, winners)
	if len(eligible) != 2 || eligible[0] != "ana" || eligible[1] != "beto" {
		t.Errorf("eligible = %v, want [ana beto]", eligible)
	}
}

func TestBuildWeightedPool(t *testing.T) {
	tests := []struct {
		name        string
		eligible    []string
		subscribers []string
		multiplier  int
		want        []string
	}{
		{
			name:        "subscriber gets multiplied entries",
			eligible:    []string{"a", "b", "c"},
			subscribers: []string{"b"},
			multiplier:  3,
			want:        []string{"a", "b", "b", "b", "c"},
		},
		{
			name:       "multiplier below range clamps to one",
			eligible:   []string{"a", "b"},
			multiplier: 0,
			want:       []string{"a", "b"},
		},
		{
			name:        "multiplier above range clamps to ten",
			eligible:    []string{"a"},
			subscribers: []string{"a"},
			multiplier:  50,
			want:        []string{"a", "a", "a", "a", "a", "a", "a", "a", "a", "a"},
		},
		{
			name:        "subscriber match ignores case",
			eligible:    []string{"Ana"},
			subscribers: []string{"ANA"},
			multiplier:  2,
			want:        []string{"Ana", "Ana"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildWeightedPool(tt.eligible, tt.subscribers, tt.multiplier)
			if len(got) != len(tt.want) {
				t.Fatalf("pool = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("pool = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGetPublicRaffleLatestWinnerIsNewestRecord(t *testing.T) {
	svc, _, _, userRepo := newTestService()
	host := &models.User{Username: "streamer"}
	_ = userRepo.Create(context.Background(), host)

	raffle, _ := svc.CreateRaffle(context.Background(), host.ID, "Rounds", []string{"ana", "beto"}, models.RaffleStatusActive)
	_, _ = svc.RegisterWinner(context.Background(), host.ID, raffle.ID, "ana", models.WinnerStatusAlAgua, nil)
	_, _ = svc.RegisterWinner(context.Background(), host.ID, raffle.ID, "beto", models.WinnerStatusWon, nil)

	public, err := svc.GetPublicRaffle(context.Background(), raffle.PublicID)
	if err != nil {
		t.Fatalf("GetPublicRaffle: %v", err)
	}
	if public.LatestWinner == nil || public.LatestWinner.Username != "beto" {
		t.Errorf("latest winner = %+v, want the most recent record (beto)", public.LatestWinner)
	}
	if len(public.Winners) != 2 {
		t.Errorf("winners = %d, want the full log", len(public.Winners))
	}
}

func TestGetPublicRaffleNoWinnersYet(t *testing.T) {
	svc, _, _, userRepo := newTestService()
	host := &models.User{Username: "streamer"}
	_ = userRepo.Create(context.Background(), host)

	raffle, _ := svc.CreateRaffle(context.Background(), host.ID, "Fresh", []string{"ana"}, "")
	public, err := svc.GetPublicRaffle(context.Background(), raffle.PublicID)
	if err != nil {
		t.Fatalf("GetPublicRaffle: %v", err)
	}
	if public.LatestWinner != nil {
		t.Errorf("latest winner = %+v, want nil before any spin", public.LatestWinner)
	}
}
