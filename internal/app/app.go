// Package app wires configuration, logging, storage and the match service
// for the binaries under cmd/.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/config"
	"github.com/peterkuimelis/triad/internal/service"
	"github.com/peterkuimelis/triad/internal/store"
)

// App is a configured process.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Store   store.Backend
	Service *service.Service
}

// Options adjusts the loaded configuration before anything is built.
type Options struct {
	ConfigPath string
	Override   func(*config.Config)
	// Notifier builds the match notifier once the logger exists.
	Notifier func(*zap.Logger) service.Notifier
}

// New loads the configuration and opens the store. Close releases both.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Override != nil {
		opts.Override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	logger.Info("store ready", zap.String("driver", cfg.Store.Driver))

	var notifier service.Notifier
	if opts.Notifier != nil {
		notifier = opts.Notifier(logger)
	}
	svc := service.New(service.Config{
		Store:        st,
		Logger:       logger,
		Notifier:     notifier,
		DefaultLevel: cfg.Game.DefaultLevel,
		Seed:         cfg.Game.Seed,
	})
	return &App{Config: cfg, Logger: logger, Store: st, Service: svc}, nil
}

// Close closes the store and flushes the logger.
func (a *App) Close() error {
	err := a.Store.Close()
	_ = a.Logger.Sync()
	return err
}
