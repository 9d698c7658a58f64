// Package pprofserver exposes the runtime profiling endpoints on a separate listener so that they never share a
// port with the public site.
package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/learnpref/internal/errors"
)

const shutdownTimeout = 5 * time.Second

// Handle registers the pprof handlers on mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch starts a pprof server listening on addr in the background. The server stops when ctx is cancelled.
//
// The returned address is the one actually bound, which differs from addr when addr uses port 0.
func Launch(ctx context.Context, addr string, logger *slog.Logger) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrap(err, "listen pprof", slog.String("pprof_addr", addr))
	}

	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "pprof shutdown failed", errors.SlogError(shutdownErr))
		}
	}()

	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", listener.Addr().String()))
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.LogAttrs(context.Background(), slog.LevelError, "pprof server stopped", errors.SlogError(serveErr))
		}
	}()

	return listener.Addr().String(), nil
}
