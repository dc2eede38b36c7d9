package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coverd/internal/composer"
	"coverd/internal/config"
	"coverd/internal/display"
	"coverd/internal/domain"
	"coverd/internal/httpserver"
	"coverd/internal/manager"
	"coverd/internal/mpdclient"
	"coverd/internal/status"
)

// AppOptions is the full dependency graph, kept separate from fx.New so tests
// can validate it with fx.ValidateApp.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		newConfig,
		status.NewStore,
		newComposer,
		newDialer,
		newInvoker,
		newManager,
		newServer,
	),
	fx.Invoke(registerHooks),
)

// newLogger creates the process-wide zap logger.
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newConfig(logger *zap.Logger) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("configuration loaded",
		zap.String("path", path),
		zap.String("daemon", cfg.MPD.Addr()),
		zap.String("artifact", cfg.ArtifactPath()),
		zap.String("control", cfg.HTTP.Addr()))
	return cfg, nil
}

func newComposer(logger *zap.Logger) (domain.Composer, error) {
	return composer.New(logger)
}

func newDialer(logger *zap.Logger, cfg *config.Config) domain.Dialer {
	return mpdclient.NewDialer(logger, cfg.MPD.Network(), cfg.MPD.Addr(), cfg.MPD.Password)
}

func newInvoker(logger *zap.Logger, cfg *config.Config) domain.Invoker {
	return display.New(logger, cfg.Display.Command)
}

func newManager(
	logger *zap.Logger,
	cfg *config.Config,
	dialer domain.Dialer,
	comp domain.Composer,
	store *status.Store,
	invoker domain.Invoker,
) *manager.Manager {
	return manager.New(logger, cfg, dialer, comp, store, invoker)
}

func newServer(logger *zap.Logger, cfg *config.Config, store *status.Store, mgr *manager.Manager) *httpserver.Server {
	return httpserver.New(logger, cfg, store, mgr)
}

// registerHooks wires startup and shutdown: take the single-instance lock,
// bring up the control interface, then the connection manager; unwind in
// reverse on stop.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.Config,
	mgr *manager.Manager,
	srv *httpserver.Server,
) {
	lock := flock.New(filepath.Join(cfg.Output.Dir, "coverd.lock"))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			held, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire instance lock: %w", err)
			}
			if !held {
				return fmt.Errorf("another instance is already running (lock %s)", lock.Path())
			}

			if err := srv.Start(); err != nil {
				lock.Unlock()
				return err
			}
			if err := mgr.Start(ctx); err != nil {
				srv.Stop(ctx)
				lock.Unlock()
				return err
			}

			logger.Info("coverd started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := mgr.Stop(ctx); err != nil {
				logger.Warn("manager shutdown incomplete", zap.Error(err))
			}
			if err := srv.Stop(ctx); err != nil {
				logger.Warn("control interface shutdown incomplete", zap.Error(err))
			}
			if err := lock.Unlock(); err != nil {
				logger.Warn("instance lock release failed", zap.Error(err))
			}
			logger.Info("coverd stopped")
			return nil
		},
	})
}
