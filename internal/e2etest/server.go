package e2etest

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/logging"
)

// LogAddrKey is the key used to log the address the server is listening on.
const LogAddrKey = "addr"

// RunFunc has the signature of the web application's run function.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

// Server is an application instance running in the background of a test.
type Server struct {
	url    string
	client *Client
	done   chan error
}

// StartServer runs the application and returns once it answers on /api/healthy.
//
// Server logs go to logSink, usually [io.Discard]. The application must log its listen address under
// [LogAddrKey] because the port is picked by the OS. The server stops when ctx is cancelled.
func StartServer(ctx context.Context, logSink io.Writer, lookupEnv func(string) (string, bool), run RunFunc) (*Server, error) {
	listening := make(chan string, 1)
	handler := slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				select {
				case listening <- a.Value.String():
				default:
				}
			}
			return a
		},
	})
	logger := slog.New(logging.NewContextHandler(handler))

	s := &Server{done: make(chan error, 1)}
	go func() {
		s.done <- run(ctx, logger, lookupEnv)
		close(s.done)
	}()

	var addr string
	select {
	case err := <-s.done:
		if err == nil {
			err = errors.NewSentinel("server exited")
		}
		return nil, errors.Wrap(err, "server stopped before listening")
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "wait for listen address")
	case addr = <-listening:
	}

	s.url = (&url.URL{Scheme: "http", Host: addr}).String()
	var err error
	if s.client, err = NewClient(s.url); err != nil {
		return nil, errors.Wrap(err, "new client")
	}
	if err = s.client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, errors.Wrap(err, "wait for ready")
	}
	return s, nil
}

// Client returns a client with its own cookie jar bound to the server.
func (s *Server) Client() *Client {
	return s.client
}

// URL returns the base URL, e.g. http://127.0.0.1:51234.
func (s *Server) URL() string {
	return s.url
}

// Wait blocks until the server has stopped and returns the error run returned.
func (s *Server) Wait() error {
	return <-s.done
}
