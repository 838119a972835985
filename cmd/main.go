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
	_ "github.com/lib/pq"

	"github.com/courtsidehq/courtside/brackets"
	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/db"
	"github.com/courtsidehq/courtside/handlers"
	"github.com/courtsidehq/courtside/repositories"
	api "github.com/courtsidehq/courtside/routes"
	"github.com/courtsidehq/courtside/services"
	"github.com/courtsidehq/courtside/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	txRunner := repositories.NewTxRunner(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	historyRepo := repositories.NewPostgresHistoryRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	displayKeyRepo := repositories.NewPostgresDisplayKeyRepository(dbConn)
	logger.Info("repositories initialized")

	// Archive export is optional: without R2 configuration completed
	// matches simply stay in Postgres.
	var archiver services.Archiver
	if cfg.ArchiveEnabled {
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
		archiver = services.NewArchiveService(uploader, matchRepo, logger)
		logger.Info("score archive export enabled", slog.String("bucket", cfg.R2BucketName))
	}

	propagator := services.NewPropagationService(matchRepo)
	matchService := services.NewMatchService(
		txRunner,
		matchRepo,
		historyRepo,
		tournamentRepo,
		participantRepo,
		propagator,
		wsHub,
		archiver,
		logger,
	)
	tournamentService := services.NewTournamentService(tournamentRepo)
	displayKeyService := services.NewDisplayKeyService(displayKeyRepo)
	logger.Info("services initialized")

	matchHandler := handlers.NewMatchHandler(matchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	publicHandler := handlers.NewPublicHandler(tournamentService, matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Config{
			JWTSecret:       []byte(cfg.JWTSecretKey),
			AllowedOrigins:  cfg.CORSAllowedOrigins,
			DisplayVerifier: displayKeyService,
		},
		matchHandler,
		tournamentHandler,
		publicHandler,
		webSocketHandler,
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
