// Package cli wires the farmcrm sync core into a small command-line tool:
// list/add/import mutate through the write path, sync and refresh drive the
// engine and loader by hand.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"farmcrm/internal/config"
	"farmcrm/internal/localdb"
	"farmcrm/internal/logging"
	"farmcrm/internal/remote"
	"farmcrm/internal/services"
	"farmcrm/internal/syncer"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	repos   *localdb.Repositories
	store   *remote.MongoStore
	service *services.FarmerService
	engine  *syncer.Engine
	loader  *syncer.Loader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	store, err := remote.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	app := &App{
		config:  cfg,
		log:     log,
		repos:   repos,
		store:   store,
		service: services.NewFarmerService(repos.Farmers, repos.Metadata, store, cfg.ChunkSize, log),
		engine: syncer.NewEngine(repos.Farmers, repos.Metadata, store, syncer.EngineConfig{
			Cooldown:  cfg.SyncCooldown,
			MaxWrites: cfg.MaxWritesPerRun,
			ChunkSize: cfg.ChunkSize,
		}, log),
		loader: syncer.NewLoader(repos.Farmers, repos.Metadata, store, syncer.LoaderConfig{
			PageSize: cfg.PageSize,
			MaxAge:   cfg.RefreshMaxAge,
		}, log),
	}
	return app, nil
}

func (a *App) Close(ctx context.Context) {
	_ = a.store.Close(ctx)
	_ = a.repos.DB.Close()
}

// Run dispatches the first non-flag argument as a command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: farmcrm [flags] <list|add|import|sync|refresh|reset|version>")
	}

	switch cmd := args[0]; cmd {
	case "list":
		return a.cmdList(ctx)
	case "add":
		return a.cmdAdd(ctx, args[1:])
	case "import":
		return a.cmdImport(ctx, args[1:])
	case "sync":
		return a.cmdSync(ctx)
	case "refresh":
		return a.cmdRefresh(ctx)
	case "reset":
		return a.cmdReset(ctx)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
