// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package harvestapp wires the discovery engine, ingestion pipeline, search
// index, scheduler, and administrative API into a single runnable
// application (spec §4, §6).
package harvestapp

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wingedpig/logharvester/internal/config"
	"github.com/wingedpig/logharvester/internal/discovery"
	"github.com/wingedpig/logharvester/internal/harvestapi"
	"github.com/wingedpig/logharvester/internal/index"
	"github.com/wingedpig/logharvester/internal/ingest"
	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/scheduler"
	"github.com/wingedpig/logharvester/internal/search"
	"github.com/wingedpig/logharvester/internal/sshtransport"
	"github.com/wingedpig/logharvester/internal/store"
)

// App is the main application container.
type App struct {
	mu sync.RWMutex

	configPath string
	version    string
	config     *config.Config

	store      store.Store
	transport  *sshtransport.Transport
	index      *index.Store
	searcher   *search.Searcher
	discovery  *discovery.Engine
	ingestion  *ingest.Pipeline
	scheduler  *scheduler.Scheduler
	httpServer *http.Server

	done     chan struct{}
	stopOnce sync.Once
}

// Options holds configuration options for the app.
type Options struct {
	ConfigPath string
	Host       string
	Port       int
	Version    string
}

// New creates a new App instance and loads its configuration.
func New(opts Options) (*App, error) {
	app := &App{
		configPath: opts.ConfigPath,
		version:    opts.Version,
		done:       make(chan struct{}),
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadWithDefaults(context.Background(), opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}

	app.config = cfg
	return app, nil
}

// Initialize sets up all components: storage, transport, search index,
// discovery and ingestion engines, scheduler, and the admin API server.
func (app *App) Initialize(ctx context.Context) error {
	cfg := app.config

	st, err := store.OpenSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	app.store = st

	if err := app.seedConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to seed config: %w", err)
	}

	app.transport = sshtransport.New(cfg.CacheSshSessions)
	app.index = index.New(cfg.IndexDir)
	app.searcher = search.New(app.index)

	logger := log.Default()
	app.discovery = discovery.New(app.store, app.transport, logger)
	app.ingestion = ingest.New(app.store, app.transport, app.index, logger, cfg.MaxWorkerParallelism)

	app.scheduler = scheduler.New(
		app.discovery.ProcessWatchers,
		app.ingestion.IngestRecords,
		cfg.DiscoveryCadence,
		cfg.IngestionCadence,
		logger,
	)

	router := harvestapi.NewRouter(harvestapi.Dependencies{
		Store:    app.store,
		Searcher: app.searcher,
	})
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	return nil
}

// seedConfig inserts the SshConfigs and Watchers declared in the config
// file, skipping any name that already exists so re-running with the same
// config file is idempotent.
func (app *App) seedConfig(ctx context.Context, cfg *config.Config) error {
	for _, c := range cfg.SshConfigs {
		existing, err := app.store.FindByPrimaryKey(ctx, store.KindSshConfig, c.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		entity := model.SshConfig{
			Name:       c.Name,
			ServerHost: c.ServerHost,
			Port:       c.Port,
			Username:   c.Username,
			Password:   c.Password,
		}
		if err := app.store.Insert(ctx, store.KindSshConfig, []model.Entity{entity}); err != nil {
			return fmt.Errorf("seeding ssh config %s: %w", c.Name, err)
		}
	}

	for _, w := range cfg.Watchers {
		existing, err := app.store.FindByPrimaryKey(ctx, store.KindWatcher, w.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		entity := model.Watcher{
			Name:           w.Name,
			SshConfigName:  w.SshConfigName,
			WatchDir:       w.WatchDir,
			RecurDepth:     w.RecurDepth,
			FilePrefix:     w.FilePrefix,
			FileContains:   w.FileContains,
			FilePostfix:    w.FilePostfix,
			ArchivedLogs:   w.ArchivedLogs,
			Enabled:        w.Enabled,
			JavaTimeZoneId: w.JavaTimeZoneId,
		}
		if err := app.store.Insert(ctx, store.KindWatcher, []model.Entity{entity}); err != nil {
			return fmt.Errorf("seeding watcher %s: %w", w.Name, err)
		}
	}

	return nil
}

// Start starts the scheduler and the admin API server.
func (app *App) Start(ctx context.Context) error {
	if err := app.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		log.Printf("Starting admin API on %s", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Run starts the app and blocks until shutdown.
func (app *App) Run(ctx context.Context) error {
	if err := app.Initialize(ctx); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-ctx.Done():
		log.Printf("Context cancelled, shutting down...")
	case <-app.done:
		log.Printf("Shutdown requested...")
	}

	return app.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if app.httpServer != nil {
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down API server: %v", err)
		}
	}

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.index != nil {
		app.index.Close()
	}

	if closer, ok := app.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}

	log.Println("Shutdown complete")
	return nil
}

// Stop signals the app to shut down. Safe to call multiple times.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}
