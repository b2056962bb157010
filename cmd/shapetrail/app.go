package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/samdwyer/shapetrail/internal/config"
	"github.com/samdwyer/shapetrail/internal/ctxlog"
	"github.com/samdwyer/shapetrail/internal/level"
	"github.com/samdwyer/shapetrail/internal/telemetry"
)

// app holds the resources shared by every subcommand for one invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	logFile  *os.File
	store    level.Store
	shutdown func(context.Context) error
	metrics  *http.Server
}

// newApp loads configuration and starts logging and telemetry.
func newApp(ctx context.Context, configPath, logLevel string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	a := &app{cfg: cfg}

	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		w = f
	}
	a.logger, err = config.NewLogger(cfg.Log.Level, cfg.Log.Format, w)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			// Continue without telemetry - the game still works
			a.logger.Warn("telemetry setup failed", "error", err)
		} else {
			a.shutdown = shutdown
			a.serveMetrics()
		}
	}
	return a, nil
}

// serveMetrics exposes the Prometheus handler when an address is configured.
func (a *app) serveMetrics() {
	addr := a.cfg.Telemetry.MetricsAddr
	handler := telemetry.MetricsHandler()
	if addr == "" || handler == nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	a.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", addr)
}

// context returns ctx carrying the app logger.
func (a *app) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// levelStore opens the configured store on first use.
func (a *app) levelStore() (level.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := level.OpenStore(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

// registry merges the bundled levels with the stored ones. Stored levels
// with a bundled id take precedence.
func (a *app) registry(ctx context.Context) (*level.Registry, error) {
	bundled, err := level.LoadBundled()
	if err != nil {
		return nil, err
	}
	s, err := a.levelStore()
	if err != nil {
		return nil, err
	}
	stored, err := level.LoadAll(ctx, s)
	if err != nil {
		return nil, err
	}
	return level.NewRegistry(bundled, stored), nil
}

// close releases everything newApp and levelStore opened.
func (a *app) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if a.metrics != nil {
		_ = a.metrics.Shutdown(ctx)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Error("closing level store", "error", err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Error("shutting down telemetry", "error", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
