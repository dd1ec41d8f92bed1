// Command liveview renders a raffle's public state in the terminal. It
// is meant for checking what the overlay would show without opening a
// browser source.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sorteoslive/sorteos-backend/pkg/liveview"
)

func main() {
	server := flag.String("server", "http://localhost:3000", "raffle server base URL")
	publicID := flag.String("public-id", "", "public id of the raffle to watch")
	flag.Parse()

	if *publicID == "" {
		fmt.Fprintln(os.Stderr, "usage: liveview -public-id <uuid> [-server <url>]")
		os.Exit(2)
	}

	url := strings.TrimRight(*server, "/") + "/api/public/raffles/" + *publicID

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := liveview.NewPoller(url, render)
	poller.OnError = func(err error) {
		slog.Warn("poll failed", "error", err)
	}

	if err := poller.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("poller stopped", "error", err)
		os.Exit(1)
	}
}

func render(state liveview.State, fx liveview.Effects, snap *liveview.Snapshot) {
	line := fmt.Sprintf("[%s] %s (%d participants)", state, snap.Title, len(snap.Participants))
	if snap.LatestWinner != nil {
		line += " winner=" + snap.LatestWinner.Username
	}
	switch {
	case fx.TriggerSpin:
		line += " *spin*"
	case fx.FireConfetti:
		line += " *confetti*"
	case state == liveview.StateWaiting:
		line += fmt.Sprintf(" claim in %s", fx.Countdown.Round(time.Second))
	}
	fmt.Println(line)
}
