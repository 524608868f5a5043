package main

import (
	"context"
	"log"

	"travel-agency/cmd"
	"travel-agency/internal/data/repository"
	"travel-agency/internal/job"
	"travel-agency/internal/usecase"
	"travel-agency/internal/wire"
	"travel-agency/pkg/cache"
	"travel-agency/pkg/database"
	"travel-agency/pkg/mailer"
	"travel-agency/pkg/media"
	"travel-agency/pkg/payment"
	"travel-agency/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("db_backend", config.Database.Backend),
		zap.String("media_backend", config.Media.Backend),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	deps, closeDeps := buildDeps(config, logger)
	defer closeDeps()

	// Background cleanup of expired sessions and OTPs
	scheduler, err := job.NewScheduler(logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.Every(config.Jobs.CleanupInterval, job.NewCleanup(repos, logger)); err != nil {
		logger.Fatal("Failed to schedule cleanup", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn("Scheduler shutdown failed", zap.Error(err))
		}
	}()

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

// buildDeps picks the collaborator variants from config. The returned func
// releases whatever needs closing.
func buildDeps(config *utils.Config, logger *zap.Logger) (usecase.Deps, func()) {
	var closers []func()
	deps := usecase.Deps{}

	// Payments
	if config.Stripe.SecretKey != "" {
		deps.Processor = payment.NewStripe(config.Stripe, logger)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, card payments are recorded by hand")
		deps.Processor = payment.NewManual()
	}

	// Media
	switch config.Media.Backend {
	case "s3":
		store, err := media.NewS3(context.Background(), config.Media, logger)
		if err != nil {
			logger.Fatal("Failed to init S3 media store", zap.Error(err))
		}
		deps.Media = store
	default:
		deps.Media = media.NewLocal(config.Media.Root, config.Media.URLPrefix, logger)
	}

	// Catalog cache
	deps.Cache = cache.Noop{}
	if config.Redis.URL != "" {
		rc, err := cache.NewRedis(config.Redis.URL, config.Redis.TTL, logger)
		if err != nil {
			logger.Fatal("Failed to init redis cache", zap.Error(err))
		}
		if err := rc.Ping(context.Background()); err != nil {
			logger.Warn("Redis unreachable, catalog cache disabled", zap.Error(err))
			rc.Close()
		} else {
			deps.Cache = rc
			closers = append(closers, func() { rc.Close() })
		}
	}

	// Mail
	m, err := mailer.New(config.Email, logger)
	if err != nil {
		logger.Fatal("Failed to init mailer", zap.Error(err))
	}
	deps.Mailer = m

	return deps, func() {
		for _, c := range closers {
			c()
		}
	}
}
