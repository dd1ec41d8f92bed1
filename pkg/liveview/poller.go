package liveview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TickFunc receives the result of each reconcile tick.
type TickFunc func(state State, fx Effects, snap *Snapshot)

// Poller polls a public raffle endpoint and feeds snapshots through a
// Reconciler. Fetch errors are logged by the caller if needed; the
// poller itself just skips the tick and retries, so a flaky network
// never kills the overlay.
type Poller struct {
	URL        string
	Client     *http.Client
	Reconciler *Reconciler
	OnTick     TickFunc
	OnError    func(error)
}

// NewPoller creates a poller for the given public raffle URL.
func NewPoller(url string, onTick TickFunc) *Poller {
	return &Poller{
		URL:        url,
		Client:     &http.Client{Timeout: 10 * time.Second},
		Reconciler: NewReconciler(),
		OnTick:     onTick,
	}
}

// Run polls until ctx is cancelled. The interval adapts to the current
// view state after every tick.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		snap, err := p.fetch(ctx)
		if err != nil {
			if p.OnError != nil {
				p.OnError(err)
			}
		} else {
			state, fx := p.Reconciler.Reconcile(snap, time.Now())
			if p.OnTick != nil {
				p.OnTick(state, fx, snap)
			}
		}

		timer.Reset(PollInterval(p.Reconciler.State()))
	}
}

func (p *Poller) fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
