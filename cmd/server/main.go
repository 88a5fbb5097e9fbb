package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newsroom-cms/api/internal/api"
	"github.com/newsroom-cms/api/internal/cache"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/service"
	"github.com/newsroom-cms/api/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	migrationsPath := pflag.String("migrations", "", "path to the migration files (default MIGRATIONS_PATH)")
	migrateDown := pflag.Bool("migrate-down", false, "roll back the last migration and exit")
	migrateTo := pflag.Uint("migrate-to", 0, "migrate to the given version and exit")
	seed := pflag.Bool("seed", false, "insert demo users, categories, articles and tasks when the database is empty")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *migrationsPath == "" {
		*migrationsPath = cfg.Database.MigrationsPath
	}

	// Initialize logger
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Msg("Starting newsroom CMS server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	switch {
	case *migrateDown:
		if err := db.MigrateDown(*migrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	case *migrateTo > 0:
		if err := db.MigrateToVersion(*migrationsPath, *migrateTo); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate")
		}
		return
	}

	// Run migrations
	if err := db.RunMigrations(*migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Optional public article cache
	redisClient := cache.NewRedisClient(context.Background(), cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	services := service.NewServices(repos, cfg, log,
		service.WithHealthChecker(db),
		service.WithCache(cache.New(redisClient, cfg.Redis.TTL, log)),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := services.Category.EnsureReserved(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure reserved category")
	}
	if *seed {
		seeded, err := service.Seed(startupCtx, repos, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed database")
		}
		log.Info().Bool("seeded", seeded).Msg("Seed finished")
	}
	cancelStartup()

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
