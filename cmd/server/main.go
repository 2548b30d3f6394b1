package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/pointsync/internal/api"
	"github.com/mcoot/pointsync/internal/factory"
	"github.com/mcoot/pointsync/internal/points"
	"github.com/mcoot/pointsync/internal/store/remote"
)

type envConfig struct {
	Addr        string `env:"POINTSYNC_ADDR" envDefault:"127.0.0.1:8475"`
	StorageType string `env:"POINTSYNC_STORAGE" envDefault:"sqlite"`
	DBPath      string `env:"POINTSYNC_DB_PATH" envDefault:"pointsync.db"`
	RemoteURL   string `env:"POINTSYNC_REMOTE_URL" envDefault:"redis://localhost:6379"`
	DailyLimit  int    `env:"POINTSYNC_DAILY_LIMIT" envDefault:"10"`
	LogLevel    string `env:"POINTSYNC_LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("invalid environment configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	remoteCfg := remote.DefaultConfig()
	remoteCfg.URL = cfg.RemoteURL

	engineCfg := points.DefaultConfig()
	engineCfg.DailyLimit = cfg.DailyLimit

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := factory.New(ctx, factory.Config{
		Logger:       logger,
		StorageType:  cfg.StorageType,
		SQLitePath:   cfg.DBPath,
		RemoteConfig: &remoteCfg,
		EngineConfig: engineCfg,
	})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// Watch for the local-midnight boundary
	go app.Boundary.Run(ctx)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Engine:      app.Engine,
		AuthService: app.AuthService,
		Content:     app.Content,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(router, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Bool("remote_connected", app.Remote != nil))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
