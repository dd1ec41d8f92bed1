// Package liveview reconciles the public raffle snapshot into the view
// state rendered by the overlay. The view is driven purely by polling:
// each tick re-reads the snapshot and derives the state from the raffle
// status and the latest winner row.
package liveview

import "time"

// State is the overlay's view state.
type State string

const (
	StateIdle      State = "IDLE"
	StateSpinning  State = "SPINNING"
	StateWaiting   State = "WAITING"
	StateWin       State = "WIN"
	StateAlAgua    State = "AL_AGUA"
	StateLoss      State = "LOSS"
	StateCompleted State = "COMPLETED"
)

// Snapshot is the decoded public raffle payload.
type Snapshot struct {
	Title        string           `json:"title"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	Participants []string         `json:"participants"`
	Winners      []WinnerSnapshot `json:"winners"`
	LatestWinner *WinnerSnapshot  `json:"latest_winner"`
	Host         HostSnapshot     `json:"host"`
}

// WinnerSnapshot is a winner row within the public payload.
type WinnerSnapshot struct {
	Username  string     `json:"username"`
	Status    string     `json:"status"`
	ClaimedAt *time.Time `json:"claimed_at"`
}

// HostSnapshot identifies the raffle host.
type HostSnapshot struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}

// Effects are the one-shot side effects a reconcile tick may request.
// They fire at most once per winner reveal, no matter how often the same
// snapshot is re-polled.
type Effects struct {
	TriggerSpin  bool
	FireConfetti bool
	// Countdown is the time left for the winner to claim while WAITING,
	// clamped to zero.
	Countdown time.Duration
}

// Reconciler folds successive snapshots into a view state. It remembers
// the last winner identity and status it rendered so that re-polling an
// identical payload never re-triggers animations.
type Reconciler struct {
	state         State
	spunFor       string
	confettiedFor string
}

// NewReconciler returns a reconciler starting in IDLE.
func NewReconciler() *Reconciler {
	return &Reconciler{state: StateIdle}
}

// State returns the current view state.
func (r *Reconciler) State() State {
	return r.state
}

// Reconcile applies one polled snapshot and returns the new view state
// plus any effects to fire. now is the tick's wall-clock time.
func (r *Reconciler) Reconcile(snap *Snapshot, now time.Time) (State, Effects) {
	var fx Effects

	winner := snap.LatestWinner
	winnerName, winnerStatus := "", ""
	if winner != nil {
		winnerName = winner.Username
		winnerStatus = winner.Status
	}

	next := r.nextState(snap.Status, winner, winnerStatus)

	switch next {
	case StateSpinning:
		// The spin animation fires once per revealed winner. A changed
		// name means a new round, so it fires again.
		if r.spunFor != winnerName {
			fx.TriggerSpin = true
			r.spunFor = winnerName
		}
	case StateWaiting:
		if winner != nil && winner.ClaimedAt != nil {
			remaining := winner.ClaimedAt.Sub(now)
			if remaining < 0 {
				remaining = 0
			}
			fx.Countdown = remaining
		}
	case StateWin:
		if r.confettiedFor != winnerName {
			fx.FireConfetti = true
			r.confettiedFor = winnerName
		}
	}

	r.state = next
	return next, fx
}

func (r *Reconciler) nextState(raffleStatus string, winner *WinnerSnapshot, winnerStatus string) State {
	if raffleStatus == "completed" {
		return StateCompleted
	}
	if raffleStatus == "spinning" && winnerStatus == "pending_reveal" {
		return StateSpinning
	}
	switch winnerStatus {
	case "waiting_claim":
		return StateWaiting
	case "al_agua":
		return StateAlAgua
	case "won":
		return StateWin
	case "lost":
		return StateLoss
	}
	// No outcome to show. Result states stick until the store says
	// otherwise; anything else settles back to IDLE.
	switch r.state {
	case StateWin, StateAlAgua, StateLoss, StateCompleted:
		return r.state
	}
	return StateIdle
}

// PollInterval returns the cadence for the given view state: fast while
// an outcome is in flight, relaxed otherwise.
func PollInterval(state State) time.Duration {
	switch state {
	case StateSpinning, StateWaiting:
		return 1 * time.Second
	case StateIdle:
		return 3 * time.Second
	default:
		return 5 * time.Second
	}
}
