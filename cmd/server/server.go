package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Run listens on the configured port and serves until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", app.config.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return app.serve(ctx, ln)
}

// serve runs the HTTP server and the task runner on ln until ctx is
// cancelled or the server fails, then shuts both down. Pending dispatch
// retries and queued suggestion jobs are drained within the shutdown timeout.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	if err := app.taskRunner.Start(); err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	server := &http.Server{
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
		}
		if err := app.dispatcher.Wait(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("dispatch retries did not finish: %w", err))
		}
		if err := app.taskRunner.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("task runner shutdown failed: %w", err))
		}

		app.logger.Info("server shutdown completed")
		return errors.Join(errs...)
	})

	return g.Wait()
}
