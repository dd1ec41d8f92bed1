package liveview

import (
	"testing"
	"time"
)

func snapshot(raffleStatus string, winner *WinnerSnapshot) *Snapshot {
	return &Snapshot{
		Title:        "Test raffle",
		Status:       raffleStatus,
		Participants: []string{"ana", "beto"},
		LatestWinner: winner,
	}
}

func TestReconcileTable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		raffleStatus string
		winnerStatus string
		want         State
	}{
		{"completed wins over everything", "completed", "pending_reveal", StateCompleted},
		{"spinning with pending reveal", "spinning", "pending_reveal", StateSpinning},
		{"waiting claim on any raffle status", "active", "waiting_claim", StateWaiting},
		{"al agua", "active", "al_agua", StateAlAgua},
		{"won", "active", "won", StateWin},
		{"lost", "active", "lost", StateLoss},
		{"created with no winner", "created", "", StateIdle},
		{"active with no winner", "active", "", StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconciler()
			var winner *WinnerSnapshot
			if tt.winnerStatus != "" {
				winner = &WinnerSnapshot{Username: "ana", Status: tt.winnerStatus}
			}
			state, _ := r.Reconcile(snapshot(tt.raffleStatus, winner), now)
			if state != tt.want {
				t.Errorf("state = %s, want %s", state, tt.want)
			}
		})
	}
}

func TestReconcileIdempotentSpin(t *testing.T) {
	r := NewReconciler()
	now := time.Now()
	snap := snapshot("spinning", &WinnerSnapshot{Username: "ana", Status: "pending_reveal"})

	_, fx := r.Reconcile(snap, now)
	if !fx.TriggerSpin {
		t.Fatal("first poll should trigger the spin animation")
	}
	for i := 0; i < 5; i++ {
		_, fx = r.Reconcile(snap, now.Add(time.Second))
		if fx.TriggerSpin {
			t.Fatal("re-polling the identical payload re-triggered the spin")
		}
	}
}

func TestReconcileSpinRetriggersOnNewWinner(t *testing.T) {
	r := NewReconciler()
	now := time.Now()

	_, fx := r.Reconcile(snapshot("spinning", &WinnerSnapshot{Username: "ana", Status: "pending_reveal"}), now)
	if !fx.TriggerSpin {
		t.Fatal("first winner should trigger the spin")
	}
	_, fx = r.Reconcile(snapshot("spinning", &WinnerSnapshot{Username: "beto", Status: "pending_reveal"}), now)
	if !fx.TriggerSpin {
		t.Error("a different winner name is a new round and should trigger again")
	}
}

func TestReconcileConfettiFiresOnce(t *testing.T) {
	r := NewReconciler()
	now := time.Now()
	snap := snapshot("active", &WinnerSnapshot{Username: "ana", Status: "won"})

	_, fx := r.Reconcile(snap, now)
	if !fx.FireConfetti {
		t.Fatal("first WIN poll should fire confetti")
	}
	_, fx = r.Reconcile(snap, now.Add(time.Second))
	if fx.FireConfetti {
		t.Error("re-polling the same WIN payload re-fired confetti")
	}
}

func TestReconcileCountdownClampedToZero(t *testing.T) {
	r := NewReconciler()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	deadline := now.Add(90 * time.Second)
	snap := snapshot("active", &WinnerSnapshot{Username: "ana", Status: "waiting_claim", ClaimedAt: &deadline})

	_, fx := r.Reconcile(snap, now)
	if fx.Countdown != 90*time.Second {
		t.Errorf("countdown = %s, want 90s", fx.Countdown)
	}

	// Past the deadline the countdown must not go negative.
	_, fx = r.Reconcile(snap, now.Add(5*time.Minute))
	if fx.Countdown != 0 {
		t.Errorf("countdown = %s, want 0 after the deadline", fx.Countdown)
	}
}

func TestReconcileResultStateSticks(t *testing.T) {
	r := NewReconciler()
	now := time.Now()

	r.Reconcile(snapshot("active", &WinnerSnapshot{Username: "ana", Status: "won"}), now)
	// A snapshot with no outcome must not knock the view back to IDLE.
	state, _ := r.Reconcile(snapshot("active", nil), now.Add(time.Second))
	if state != StateWin {
		t.Errorf("state = %s, want WIN to stick without a new outcome", state)
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		state State
		want  time.Duration
	}{
		{StateSpinning, time.Second},
		{StateWaiting, time.Second},
		{StateIdle, 3 * time.Second},
		{StateWin, 5 * time.Second},
		{StateCompleted, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := PollInterval(tt.state); got != tt.want {
			t.Errorf("PollInterval(%s) = %s, want %s", tt.state, got, tt.want)
		}
	}
}
