package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nileshswami544-code/freelancerpayment/internal/auth"
	"github.com/nileshswami544-code/freelancerpayment/internal/config"
	"github.com/nileshswami544-code/freelancerpayment/internal/database"
	"github.com/nileshswami544-code/freelancerpayment/internal/handler"
	"github.com/nileshswami544-code/freelancerpayment/internal/logger"
	"github.com/nileshswami544-code/freelancerpayment/internal/repository"
	"github.com/nileshswami544-code/freelancerpayment/internal/router"
	"github.com/nileshswami544-code/freelancerpayment/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		ms, err := database.Migrations()
		if err != nil {
			return err
		}
		if _, err := database.Migrate(ctx, db, ms, log); err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.Cache.Enabled {
		if rdb, err = config.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Warnw("redis unreachable, report cache disabled", "error", err)
		} else {
			defer rdb.Close()
		}
	}

	var events service.ActivityPublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		p := service.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue, log)
		defer p.Close()
		events = p
	}

	svc, err := auth.NewService(repository.NewUserRepo(db), cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, auth.WithLogger(log))
	if err != nil {
		return err
	}
	opts := handler.Options{
		DBTimeout:              cfg.DBTimeout,
		EnforceParentOwnership: cfg.EnforceParentOwnership,
		Log:                    log,
		Events:                 events,
	}
	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(svc, opts),
		Resources: handler.NewResourceHandler(db, opts),
		Verifier:  svc,
		Cache:     cfg.Cache,
		Redis:     rdb,
		Log:       log,
		StaticDir: cfg.StaticDir,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr, "env", cfg.Env,
			"cache", rdb != nil, "events", cfg.Events.Enabled, "enforce_parent_ownership", cfg.EnforceParentOwnership)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
