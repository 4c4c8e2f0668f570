package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/config"
	"github.com/jaminalder/tictactoe-timetravel/internal/term"
	"github.com/jaminalder/tictactoe-timetravel/internal/web"
	"github.com/muesli/termenv"
)

const shutdownTimeout = 5 * time.Second

// RunApp - runs the configured view until it ends or a shutdown signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, logger, conf, os.Stdin, os.Stdout)
}

// Run starts the view selected by conf.Mode and blocks until ctx is done.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "application")

	switch conf.Mode {
	case config.ModeTerminal:
		log.Info("Starting terminal game")
		var opts []termenv.OutputOption
		if conf.NoColor {
			opts = append(opts, termenv.WithProfile(termenv.Ascii))
		}
		if err := term.NewConsole(in, out, logger, opts...).Run(ctx); err != nil {
			return fmt.Errorf("terminal game: %w", err)
		}
		return nil
	case config.ModeWeb:
		return runWeb(ctx, logger, conf)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownMode, conf.Mode)
	}
}

func runWeb(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "application")

	svc := app.NewService(logger)
	go svc.RunSweeper(ctx, conf.Session.SweepInterval, conf.Session.TTL)

	srv := &http.Server{
		Addr:              conf.HTTP.Addr,
		Handler:           web.NewServer(svc, logger, web.Options{Heartbeat: conf.HTTP.Heartbeat}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "addr", conf.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	return nil
}
