package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartwater/monitoring-api/internal/api"
	mongodb "github.com/smartwater/monitoring-api/internal/infrastructure/db/mongo"
	redisdb "github.com/smartwater/monitoring-api/internal/infrastructure/db/redis"
	"github.com/smartwater/monitoring-api/internal/pkg/config"
	"github.com/smartwater/monitoring-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := userRepo.EnsureSeedUsers(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to seed default users")
	}
	if err := mongodb.NewMeasurementRepository(db).EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create measurement indexes")
	}

	e, dispatcher := api.NewRouter(db, rdb, cfg, logg)
	dispatcher.Start(ctx)

	go func() {
		logg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("monitoring API listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logg.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown error")
	}
}
