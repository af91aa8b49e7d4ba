// Package app wires the storage, AI and session layers from a Config.
package app

import (
	"context"
	"fmt"
	"io"

	"lingovibe/backend/internal/config"
	"lingovibe/backend/internal/db"
	"lingovibe/backend/internal/logger"
	"lingovibe/backend/internal/model"
	"lingovibe/backend/internal/network"
	"lingovibe/backend/internal/repository"
	"lingovibe/backend/internal/scheduler"
	"lingovibe/backend/internal/service"
	"lingovibe/backend/internal/service/ai"
	"lingovibe/backend/internal/snowflake"
	"lingovibe/backend/internal/store"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config   *config.Config
	Repo     repository.SettingsRepository
	Store    store.Store
	Settings service.SettingsService
	Gateway  service.Gateway
	Session  service.Session

	scheduler *scheduler.Scheduler
	closers   []io.Closer
}

// New opens storage and builds the service graph. Close releases it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := snowflake.Init(cfg.Snowflake.NodeID); err != nil {
		return nil, fmt.Errorf("init snowflake: %w", err)
	}

	a := &App{Config: cfg}
	repo, err := a.openRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.Repo = repo

	defaults := model.LanguagePref{NativeCode: cfg.Session.NativeLang, TargetCode: cfg.Session.TargetLang}
	a.Store = store.New(repo, defaults)

	rateLimiter := ai.NewRateLimiter(cfg.AI.RateLimit)
	a.Settings = service.NewSettingsService(repo, cfg.AI, rateLimiter)
	if stored, err := a.Settings.GetAISettings(ctx); err == nil && stored.RateLimit > 0 {
		rateLimiter.SetLimit(stored.RateLimit)
	}
	clients := network.NewClientFactory(a.Settings)
	a.Gateway = service.NewGateway(a.Settings, clients, rateLimiter, cfg.AI.RequestTimeout)

	a.Session, err = service.NewSession(ctx, a.Store, a.Gateway, service.SessionOptions{
		FlipDelay: cfg.Session.FlipDelay,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if m, ok := repo.(repository.Maintainer); ok && cfg.Storage.MaintenanceInterval > 0 {
		a.scheduler = scheduler.New(m, cfg.Storage.MaintenanceInterval)
	}
	return a, nil
}

func (a *App) openRepository(cfg config.StorageConfig) (repository.SettingsRepository, error) {
	switch cfg.Driver {
	case "badger":
		repo, err := repository.OpenBadgerSettingsRepository(repository.BadgerOptions{Dir: cfg.BadgerPath()})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo)
		logger.Info("store opened", "module", "app", "action", "open", "resource", "store", "result", "ok", "driver", cfg.Driver, "path", cfg.BadgerPath())
		return repo, nil
	default:
		conn, err := db.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn)
		logger.Info("store opened", "module", "app", "action", "open", "resource", "store", "result", "ok", "driver", cfg.Driver, "path", cfg.SQLitePath())
		return repository.NewSettingsRepository(conn), nil
	}
}

// StartMaintenance begins periodic storage housekeeping. It is a no-op
// when the interval is zero.
func (a *App) StartMaintenance() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

// Close stops background work and releases storage. Safe to call once.
func (a *App) Close() {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Warn("store close failed", "module", "app", "action", "close", "resource", "store", "result", "failed", "error", err)
		}
	}
	a.closers = nil
}
