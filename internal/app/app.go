package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/httpserver"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/scheduler"
	"github.com/MrSnakeDoc/startpage/internal/version"
)

// App is the long running server: HTTP API plus background sync.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	core   *Core
	worker *scheduler.SyncWorker
	server *httpserver.Server
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	core, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	worker := scheduler.NewSyncWorker(core.Dashboard, log, cfg.SyncStartDelay, cfg.SyncInterval)

	d := deps.Deps{
		Logger:              log,
		StartTime:           time.Now(),
		Version:             version.Version,
		Commit:              version.Commit,
		BuildDate:           version.BuildDate,
		GoVersion:           version.GoVersion,
		TimeNow:             time.Now,
		AllowedHosts:        cfg.AllowedHosts,
		AllowedCIDRS:        cfg.AllowedCIDRS,
		TrustProxy:          cfg.TrustProxy,
		CORSOrigins:         cfg.CORSOrigins,
		Dashboard:           core.Dashboard,
		Sync:                worker,
		StoreType:           cfg.StoreType,
		WallpaperDir:        cfg.WallpaperDir,
		WallpaperPrefix:     cfg.WallpaperPrefix,
		PackWallpapers:      cfg.PackWallpapers,
		MaxPackedWallpapers: cfg.MaxPackedWallpapers,
		MaxWallpaperBytes:   cfg.MaxWallpaperBytes,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		SearchFallbackURL:   cfg.SearchFallbackURL,
		WriteBurst:          cfg.WriteBurst,
		WriteRefillPerMin:   cfg.WriteRefillMin,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		core:   core,
		worker: worker,
		server: httpserver.New(cfg, d),
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down in reverse order.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting startpage %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.worker.Start(ctx)
	a.logger.Info("sync worker started",
		logger.Duration("start_delay", a.cfg.SyncStartDelay),
		logger.Duration("interval", a.cfg.SyncInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if st := a.core.Dashboard.Status(); st.UnsavedChanges {
		a.logger.Warn("stopping with unsaved changes, they stay in the local store until the next save")
	}

	if err := a.core.Close(); err != nil {
		a.logger.Warn("failed to close store", logger.Error(err))
	} else {
		a.logger.Info("✅ store closed cleanly")
	}

	if runErr == nil {
		a.logger.Info("✅ startpage stopped cleanly")
	}
	return runErr
}
