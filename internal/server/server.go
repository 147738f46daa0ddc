// Package server owns the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// Worker is a background loop that runs alongside the server and returns
// when its context is cancelled.
type Worker func(ctx context.Context)

// Start serves handler on APP_PORT until ctx is cancelled, then drains
// in-flight requests for up to SHUTDOWN_TIMEOUT.
func Start(ctx context.Context, handler http.Handler, workers ...Worker) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	return run(ctx, srv, srv.ListenAndServe, workers...)
}

func run(ctx context.Context, srv *http.Server, serve func() error, workers ...Worker) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("catalog listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	for _, w := range workers {
		g.Go(func() error {
			w(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
