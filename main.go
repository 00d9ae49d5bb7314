package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealmatch/config"
	"mealmatch/events"
	"mealmatch/handlers"
	"mealmatch/repository"
	"mealmatch/routes"
	"mealmatch/service"
	"mealmatch/session"
	"mealmatch/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg.LogLevel)

	// Set Gin mode
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	if err := config.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("Database connected and migrated")

	sessions, err := session.New(cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("Failed to set up sessions")
	}
	defer sessions.Close()

	uploads, err := storage.NewUploads(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload directory")
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info().Msg("KAFKA_BROKERS not set, order events disabled")
	}

	users := repository.NewUserRepository(db)
	h := handlers.New(handlers.Deps{
		Auth:        service.NewAuthService(users, uploads, cfg.BcryptCost),
		Profile:     service.NewProfileService(users, uploads, cfg.BcryptCost),
		Restaurants: service.NewRestaurantService(repository.NewRestaurantRepository(db), repository.NewMenuRepository(db)),
		Orders:      service.NewOrderService(repository.NewOrderRepository(db), publisher),
		Sessions:    sessions,
	})

	router := routes.NewRouter(routes.Options{
		Handler:     h,
		Static:      handlers.NewStatic(os.DirFS(cfg.PublicDir)),
		Sessions:    sessions,
		Users:       users,
		UploadDir:   cfg.UploadDir,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Msgf("Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
}
