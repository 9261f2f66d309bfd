package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/identitylab/identity-service/internal/api"
	"github.com/identitylab/identity-service/internal/core/service"
	"github.com/identitylab/identity-service/internal/infrastructure/config"
	mongodb "github.com/identitylab/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identitylab/identity-service/internal/infrastructure/db/redis"
	"github.com/identitylab/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options come from config, so config failures go to stderr.
		os.Stderr.WriteString("fatal: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting mongodb")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis")
		}
	}()

	// --- Explicit wiring: store, hasher, token service, authenticator ---
	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring mongodb indexes")
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost, cfg.HashWorkers)
	tokens := service.NewJWTTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	auth, err := service.NewAuthService(ctx, users, hasher, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("constructing auth service")
	}

	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)

	e := api.NewRouter(api.Dependencies{
		Auth:     auth,
		Users:    users,
		Tokens:   tokens,
		Throttle: throttle,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	// --- Serve until signalled, then drain ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
