// Package main wires the HTTP server for the task manager API.
//
//	@title						Task Manager API
//	@version					1.0
//	@description				Invite-only multi-tenant task manager.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/task-manager/internal/api"
	"github.com/99minutos/task-manager/internal/api/handler"
	"github.com/99minutos/task-manager/internal/core/service"
	"github.com/99minutos/task-manager/internal/infrastructure/config"
	"github.com/99minutos/task-manager/internal/infrastructure/db/mongo"
	"github.com/99minutos/task-manager/internal/infrastructure/db/redis"
	"github.com/99minutos/task-manager/internal/infrastructure/delivery"
	"github.com/99minutos/task-manager/internal/infrastructure/queue"
	"github.com/99minutos/task-manager/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "task-manager"))

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}
}

// run connects the backing services, serves HTTP until ctx is cancelled and
// then shuts everything down in order.
func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	log := logger.Get()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect error")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close error")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	userRepo := mongo.NewUserRepository(db)
	invitationRepo := mongo.NewInvitationRepository(db)
	taskRepo := mongo.NewTaskRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, invitationRepo, taskRepo); err != nil {
		return err
	}

	// Workers stop only after the HTTP server, so requests still being
	// served can hand off their notices.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(
		cfg.Delivery.Workers,
		delivery.NewLogDelivery(logger.Component("invitation_delivery"), cfg.Delivery.BaseURL),
		logger.Component("dispatcher"),
	)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	tokens := service.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)
	invitationSvc := service.NewInvitationService(invitationRepo, dispatcher, logger.Component("invitation_service"))
	authSvc := service.NewAuthService(
		userRepo,
		invitationSvc,
		tokens,
		logger.Component("auth_service"),
		service.WithBcryptCost(cfg.Auth.BcryptCost),
		service.WithLoginThrottle(redis.NewLoginLimiter(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow)),
	)
	taskSvc := service.NewTaskService(taskRepo, logger.Component("task_service"))

	e := api.NewRouter(api.Dependencies{
		Auth:        authSvc,
		Invitations: invitationSvc,
		Tasks:       taskSvc,
		Tokens:      tokens,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Log: logger.Component("http"),
	})

	serveErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	default:
	}

	log.Info().Msg("server stopped")
	return nil
}
