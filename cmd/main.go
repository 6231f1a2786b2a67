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

	"github.com/Dosada05/league-bot/config"
	"github.com/Dosada05/league-bot/db"
	"github.com/Dosada05/league-bot/events"
	"github.com/Dosada05/league-bot/handlers"
	"github.com/Dosada05/league-bot/middleware"
	"github.com/Dosada05/league-bot/repositories"
	api "github.com/Dosada05/league-bot/routes"
	"github.com/Dosada05/league-bot/services"
	"github.com/Dosada05/league-bot/storage"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// sweepInterval controls how often expired contract offers are purged.
const sweepInterval = time.Hour

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

	feed := events.NewHub(logger)
	go feed.Run()
	logger.Info("event feed hub started")

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	offerRepo := repositories.NewPostgresOfferRepository(dbConn)
	refereeRepo := repositories.NewPostgresRefereeRepository(dbConn)
	settingRepo := repositories.NewPostgresSettingRepository(dbConn)
	txm := repositories.NewTxManager(dbConn)
	logger.Info("repositories initialized")

	clock := clockwork.NewRealClock()
	permissionService := services.NewPermissionService(teamRepo, refereeRepo, settingRepo)
	teamService := services.NewTeamService(
		teamRepo, playerRepo, membershipRepo, matchRepo, offerRepo, settingRepo,
		permissionService, txm, uploader,
	)
	offerService := services.NewOfferService(
		offerRepo, teamRepo, playerRepo, membershipRepo, settingRepo,
		permissionService, txm, clock, feed,
	)
	matchService := services.NewMatchService(matchRepo, teamRepo, settingRepo, permissionService, clock)
	resultService := services.NewResultService(playerRepo, settingRepo, permissionService, txm, feed)
	refereeService := services.NewRefereeService(refereeRepo, settingRepo)
	settingService := services.NewSettingService(settingRepo, permissionService)
	logger.Info("services initialized")

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		handlers.NewTeamHandler(teamService),
		handlers.NewOfferHandler(offerService),
		handlers.NewMatchHandler(matchService),
		handlers.NewRefereeHandler(refereeService),
		handlers.NewResultHandler(resultService),
		handlers.NewSettingHandler(settingService),
		handlers.NewWebSocketHandler(feed),
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		logger.Info("offer expiry sweeper started", slog.Duration("interval", sweepInterval))
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				removed, err := offerService.SweepExpired(groupCtx)
				if err != nil {
					logger.Error("offer sweep failed", slog.Any("error", err))
					continue
				}
				if removed > 0 {
					logger.Info("expired offers removed", slog.Int64("count", removed))
				}
			}
		}
	})

	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
