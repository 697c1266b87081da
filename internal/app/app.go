package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShubhamPP04/todo-list/internal/adapter/file"
	"github.com/ShubhamPP04/todo-list/internal/adapter/postgres"
	"github.com/ShubhamPP04/todo-list/internal/adapter/postgres/record"
	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/remote"
	"github.com/ShubhamPP04/todo-list/internal/service/tracker"
)

// Engine is the composed application: a storage adapter, the remote
// client, the merge service, and the controller a display layer drives.
type Engine struct {
	Controller *tracker.Controller
	Bus        *tracker.Bus

	log  *slog.Logger
	pool *pgxpool.Pool
}

// Build loads configuration and wires the engine together. The storage
// driver decides whether records persist to a JSON file or to Postgres.
func Build(ctx context.Context) (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting engine",
		slog.String("version", BuildVersion()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("remote_base_url", cfg.Remote.BaseURL),
	)

	client := remote.NewClient(cfg.Remote, logger)
	bus := tracker.NewBus()

	var (
		svc  *tracker.Service
		pool *pgxpool.Pool
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err = postgres.NewPool(ctx, cfg.Storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := record.New(pool, postgres.NewTxManager(pool))
		svc = tracker.NewService(logger, repo, client, cfg.Engine)
	default:
		store := file.NewStore(cfg.Storage.File, logger)
		svc = tracker.NewService(logger, store, client, cfg.Engine)
	}

	controller := tracker.NewController(logger, svc, cfg.Engine, bus)

	return &Engine{
		Controller: controller,
		Bus:        bus,
		log:        logger,
		pool:       pool,
	}, nil
}

// Run builds the engine, performs the initial load, and blocks until the
// context is canceled.
func Run(ctx context.Context) error {
	engine, err := Build(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.Controller.Load(ctx)

	<-ctx.Done()
	engine.log.Info("shutting down")
	return nil
}

// Close releases the engine's resources.
func (e *Engine) Close() {
	e.Controller.Close()
	if e.pool != nil {
		e.pool.Close()
	}
}
