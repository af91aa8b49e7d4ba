package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"lingovibe/backend/internal/app"
	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/audio/speaker"
	"lingovibe/backend/internal/config"
	"lingovibe/backend/internal/handler"
	transport "lingovibe/backend/internal/http"
	"lingovibe/backend/internal/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "module", "main", "action", "run", "resource", "server", "result", "failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logCloser := logger.InitWithFile(logger.ParseLevel(cfg.Log.Level), logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer a.Close()
	a.StartMaintenance()

	var player *audio.Player
	if cfg.Audio.Enabled {
		player = audio.NewPlayer(a.Gateway, speaker.New(audio.SpeechFormat), a.Session.SetPlaying)
	}

	router := transport.NewRouter(
		handler.NewSessionHandler(a.Session),
		handler.NewAudioHandler(player, a.Gateway),
		handler.NewSettingsHandler(a.Settings),
		cfg.Server.StaticDir,
	)

	logger.Info("server starting", "module", "main", "action", "start", "resource", "server", "result", "ok",
		"addr", cfg.Server.Addr, "app", config.AppName, "version", config.AppVersion, "driver", cfg.Storage.Driver, "audio", cfg.Audio.Enabled)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := router.Start(cfg.Server.Addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "module", "main", "action", "stop", "resource", "server", "result", "ok")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
