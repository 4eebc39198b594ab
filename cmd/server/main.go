package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/staffdesk/identity-api/internal/api"
	"github.com/staffdesk/identity-api/internal/infrastructure/config"
	redisinfra "github.com/staffdesk/identity-api/internal/infrastructure/db/redis"
	"github.com/staffdesk/identity-api/internal/infrastructure/db/snapshot"
	"github.com/staffdesk/identity-api/internal/infrastructure/presence"
	"github.com/staffdesk/identity-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			log.Fatal().Msg("JWT_SECRET must be set outside development")
		}
		log.Warn().Msg("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = "dev-secret-do-not-use"
	}

	// Restore the dataset (or seed a fresh one) before accepting traffic.
	store, err := snapshot.Open(cfg.SnapshotPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SnapshotPath).Msg("failed to open snapshot store")
	}

	tracker := presence.NewTracker()

	// Redis only backs rate limiting; run without it rather than refusing to
	// start.
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, rate limiting disabled")
			rdb = nil
		}
	}

	e := api.NewRouter(cfg, store, tracker, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api listening")

	// Wait for signal, then drain in-flight requests.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
