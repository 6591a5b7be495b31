// Package main creates the bootstrap admin account. It is safe to run
// repeatedly: an existing user with the configured email is left untouched.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/task-manager/internal/core/service"
	"github.com/99minutos/task-manager/internal/infrastructure/config"
	"github.com/99minutos/task-manager/internal/infrastructure/db/mongo"
	"github.com/99minutos/task-manager/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "task-manager-seed"))

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("seed failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect error")
		}
	}()

	users := mongo.NewUserRepository(db)
	if err := mongo.EnsureIndexes(ctx, users); err != nil {
		return err
	}

	// Seeding never signs tokens or consumes invitations.
	authSvc := service.NewAuthService(users, nil, nil, logger.Component("seed"),
		service.WithBcryptCost(cfg.Auth.BcryptCost))

	created, err := authSvc.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("seed complete: admin created")
	} else {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("seed complete: nothing to do")
	}
	return nil
}
