package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/learnpref/internal/errors"
)

const defaultTimeout = 5 * time.Second

// configureAndStartServer serves the application on addr until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownComplete := make(chan error, 1)
	idleTimeout := time.Minute
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}

	var (
		listener net.Listener
		err      error
	)
	if listener, err = net.Listen("tcp", addr); err != nil {
		return errors.Wrap(err, "TCP listen", slog.String("addr", addr))
	}

	go func() {
		<-ctx.Done()
		app.logger.LogAttrs(context.Background(), slog.LevelInfo, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		shutdownComplete <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server serve")
	}
	if err = <-shutdownComplete; err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	app.logger.LogAttrs(context.Background(), slog.LevelInfo, "server stopped")

	return nil
}
