package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sorteoslive/sorteos-backend/api/routes"
	"github.com/sorteoslive/sorteos-backend/internal/config"
	"github.com/sorteoslive/sorteos-backend/internal/handlers"
	"github.com/sorteoslive/sorteos-backend/internal/repositories"
	mongorepo "github.com/sorteoslive/sorteos-backend/internal/repositories/mongodb"
	"github.com/sorteoslive/sorteos-backend/internal/services"
	"github.com/sorteoslive/sorteos-backend/pkg/mongodb"
	"github.com/sorteoslive/sorteos-backend/pkg/twitchapi"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var raffleRepo repositories.RaffleRepository = mongorepo.NewRaffleRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)

	twitchClient := twitchapi.NewClient(
		cfg.Twitch.BaseURL,
		cfg.Twitch.AuthBaseURL,
		cfg.Twitch.ClientID,
		cfg.Twitch.ClientSecret,
		cfg.Twitch.RedirectURI,
		cfg.Twitch.MockAPI,
	)

	authService := services.NewAuthService(userRepo, twitchClient, cfg)
	raffleService := services.NewRaffleService(raffleRepo, winnerRepo, userRepo)
	userService := services.NewUserService(userRepo)
	twitchService, err := services.NewTwitchService(twitchClient, cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		slog.Error("Failed to initialize Twitch service", "error", err)
		os.Exit(1)
	}

	router := routes.SetupRouter(cfg, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg),
		Raffle:       handlers.NewRaffleHandler(raffleService),
		PublicRaffle: handlers.NewPublicRaffleHandler(raffleService),
		Twitch:       handlers.NewTwitchHandler(twitchService),
		User:         handlers.NewUserHandler(userService),
	}, userRepo)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
