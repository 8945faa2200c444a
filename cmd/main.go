package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marasteiner/flag-ding/config"
	"github.com/marasteiner/flag-ding/db"
	"github.com/marasteiner/flag-ding/handlers"
	"github.com/marasteiner/flag-ding/middleware"
	"github.com/marasteiner/flag-ding/repositories"
	api "github.com/marasteiner/flag-ding/routes"
	"github.com/marasteiner/flag-ding/scoreboard"
	"github.com/marasteiner/flag-ding/services"
	"github.com/marasteiner/flag-ding/storage"

	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	scoreboardCache, err := scoreboard.NewCache(cfg.RedisAddr)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := scoreboardCache.Close(); err != nil {
			logger.Error("failed to close Redis connection", slog.Any("error", err))
		}
	}()
	logger.Info("Redis connection established", slog.String("addr", cfg.RedisAddr))

	wsHub := scoreboard.NewHub()
	go wsHub.Run()
	logger.Info("scoreboard hub started")

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	applicationRepo := repositories.NewPostgresApplicationRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	scoreEventRepo := repositories.NewPostgresScoreEventRepository(dbConn)
	officialRepo := repositories.NewPostgresOfficialRepository(dbConn)
	logger.Info("repositories initialized")

	publisher := scoreboard.NewPublisher(wsHub, scoreboardCache, gameRepo, teamRepo, logger)

	authService := services.NewAuthService(teamRepo)
	teamService := services.NewTeamService(teamRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo)
	tournamentService := services.NewTournamentService(tournamentRepo)
	applicationService := services.NewApplicationService(applicationRepo, teamRepo, tournamentRepo)
	gameService := services.NewGameService(gameRepo, teamRepo, publisher)
	scorecardService := services.NewScorecardService(dbConn, gameRepo, scoreEventRepo, officialRepo, publisher)
	scheduleService := services.NewScheduleService(dbConn, tournamentRepo, applicationRepo, gameRepo, publisher)
	standingsService := services.NewStandingsService(tournamentRepo, applicationRepo, gameRepo, teamRepo)
	logger.Info("services initialized")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, scheduleService, gameService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	gameHandler := handlers.NewGameHandler(gameService)
	scorecardHandler := handlers.NewScorecardHandler(scorecardService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	scoreboardHandler := handlers.NewScoreboardHandler(wsHub, publisher, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		teamHandler,
		playerHandler,
		tournamentHandler,
		applicationHandler,
		gameHandler,
		scorecardHandler,
		standingsHandler,
		scoreboardHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
