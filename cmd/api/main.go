package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/alchemorsel-v2/discovery/config"
	"github.com/pageza/alchemorsel-v2/discovery/internal/api"
	"github.com/pageza/alchemorsel-v2/discovery/internal/catalog"
	"github.com/pageza/alchemorsel-v2/discovery/internal/database"
	"github.com/pageza/alchemorsel-v2/discovery/internal/discovery"
	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/middleware"
	"github.com/pageza/alchemorsel-v2/discovery/internal/pagination"
	"github.com/pageza/alchemorsel-v2/discovery/internal/server"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.Info().Str("environment", string(config.GetEnvironment())).Msg("configuration loaded")

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	catalogClient, err := catalog.NewClient(catalog.Options{
		BaseURL:        cfg.CatalogBaseURL,
		Timeout:        cfg.CatalogTimeout,
		RequestsPerSec: cfg.CatalogRPS,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create catalog client")
	}

	listings := pagination.NewManager(
		catalogClient,
		pagination.NewStore(redisClient, cfg.SessionTTL),
		pagination.Options{APIPrefix: cfg.CatalogAPIPrefix},
	)

	srv := server.New(cfg, api.Dependencies{
		Auth:        service.NewAuthService(cfg.JWTSecret),
		Discoverer:  discovery.NewService(catalogClient, cfg.Discovery),
		Lister:      listings,
		Events:      service.NewEventService(db.DB),
		RateLimiter: middleware.NewDiscoveryRateLimiter(redisClient),
	}, map[string]server.HealthCheck{
		"database": db.HealthCheck,
		"redis":    func(ctx context.Context) error { return redisPing(ctx, redisClient) },
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("received signal")
	}

	logging.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	logging.Info().Msg("server stopped")
}

func redisPing(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
