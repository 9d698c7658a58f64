// Package testhelpers holds helpers shared by tests across packages.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/learnpref/internal/logging"
)

// NewLogger creates a debug level logger writing text to logSink, such as io.Discard or a bytes.Buffer.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}
