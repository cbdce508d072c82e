package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/layerlint/internal/checker"
	"github.com/MrSnakeDoc/layerlint/internal/config"
	"github.com/MrSnakeDoc/layerlint/internal/httpserver"
	"github.com/MrSnakeDoc/layerlint/internal/httpserver/deps"
	"github.com/MrSnakeDoc/layerlint/internal/logger"
	"github.com/MrSnakeDoc/layerlint/internal/version"
)

// App is the serve-mode composition root: one runner shared by all
// requests behind the HTTP validation API.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
}

// New wires the serve-mode application.
func New(cfg *config.Config, log logger.Logger) *App {
	runner := checker.New(cfg, log)

	d := deps.Deps{
		Logger:    log,
		Runner:    runner,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
	}

	return &App{
		cfg:    cfg,
		logger: log,
		server: httpserver.New(cfg, log, d),
	}
}

// Run starts the server and blocks until a signal or server error.
func (a *App) Run() error {
	a.logger.Infof("Starting layerlint %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("layerlint stopped cleanly")
	return nil
}
