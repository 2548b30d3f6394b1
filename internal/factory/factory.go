// Package factory wires the application components together.
package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/pointsync/internal/auth"
	"github.com/mcoot/pointsync/internal/boundary"
	"github.com/mcoot/pointsync/internal/content"
	"github.com/mcoot/pointsync/internal/dependencies/clock"
	"github.com/mcoot/pointsync/internal/identity"
	"github.com/mcoot/pointsync/internal/kv"
	kvmemory "github.com/mcoot/pointsync/internal/kv/memory"
	kvsqlite "github.com/mcoot/pointsync/internal/kv/sqlite"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/points"
	"github.com/mcoot/pointsync/internal/store/local"
	"github.com/mcoot/pointsync/internal/store/remote"
)

// Local storage type constants
const (
	StorageTypeSQLite = "sqlite"
	StorageTypeMemory = "memory"
)

// App contains all wired application components
type App struct {
	// Storage
	KV     kv.Store
	Local  *local.Store
	Remote *remote.Store // nil when the remote backend is unreachable

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService *auth.Service
	Resolver    *identity.Resolver
	Engine      *points.Engine
	Migrator    *points.Coordinator
	Boundary    *boundary.Boundary
	Content     *content.Cache
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the local storage backend ("sqlite" or "memory")
	// If empty, defaults to "sqlite"
	StorageType string
	// SQLitePath is the database path (required if StorageType is "sqlite")
	SQLitePath string
	// RemoteConfig holds remote backend settings (optional)
	// If nil, defaults to remote.DefaultConfig()
	RemoteConfig *remote.Config
	// EngineConfig holds engine settings (optional)
	EngineConfig points.Config
	// AuthConfig holds auth settings (optional)
	AuthConfig auth.Config
}

// New creates a new application with all dependencies wired and the engine
// activated for the resolved actor. An unreachable remote backend degrades
// to guest-only operation rather than failing startup.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var kvStore kv.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeSQLite
	}

	switch storageType {
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := kvsqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		kvStore = sqliteStore
	case StorageTypeMemory:
		kvStore = kvmemory.New()
	default:
		return nil, errors.New("invalid StorageType: must be 'sqlite' or 'memory'")
	}

	clk := clock.New()

	remoteCfg := cfg.RemoteConfig
	if remoteCfg == nil {
		defaults := remote.DefaultConfig()
		remoteCfg = &defaults
	}
	remoteStore, err := remote.New(*remoteCfg, clk)
	if err != nil {
		logger.Warn("remote backend unreachable, running guest-only",
			slog.String("url", remoteCfg.URL),
			slog.String("error", err.Error()))
		remoteStore = nil
	}

	app, err := newWithDependencies(kvStore, remoteStore, clk, cfg, logger)
	if err != nil {
		_ = kvStore.Close()
		return nil, err
	}

	if err := app.Start(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful
// for testing)
func newWithDependencies(kvStore kv.Store, remoteStore *remote.Store, clk clock.Clock, cfg Config, logger *slog.Logger) (*App, error) {
	localStore := local.New(kvStore, clk)

	authService := auth.New(remoteStore, clk, cfg.AuthConfig, logger)
	resolver := identity.New(localStore, authService, logger)
	migrator := points.NewCoordinator(localStore, remoteStore, logger)
	engine := points.NewEngine(localStore, remoteStore, migrator, clk, cfg.EngineConfig, logger)

	fetcher := func(ctx context.Context) ([]model.Brand, error) {
		if remoteStore == nil {
			return nil, nil
		}
		return remoteStore.Brands(ctx)
	}

	app := &App{
		KV:          kvStore,
		Local:       localStore,
		Remote:      remoteStore,
		Clock:       clk,
		AuthService: authService,
		Resolver:    resolver,
		Engine:      engine,
		Migrator:    migrator,
		Content:     content.New(fetcher),
	}
	app.Boundary = boundary.New(clk, func(now time.Time) {
		engine.OnNewDay(context.Background(), now)
	})
	return app, nil
}

// Start resolves the initial actor, wires actor-change handling, and
// activates the engine
func (a *App) Start(ctx context.Context) error {
	if err := a.Resolver.Start(ctx); err != nil {
		return err
	}
	a.Resolver.Subscribe(func(change model.ActorChange) {
		a.Engine.OnActorChanged(context.Background(), change)
	})
	return a.Engine.Activate(ctx, a.Resolver.CurrentActor())
}

// Close releases storage handles
func (a *App) Close() error {
	var errs []error
	if a.Remote != nil {
		errs = append(errs, a.Remote.Close())
	}
	errs = append(errs, a.KV.Close())
	return errors.Join(errs...)
}
