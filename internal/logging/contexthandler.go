package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/myrjola/learnpref/internal/errors"
)

type contextKey string

const slogAttrs contextKey = "slogAttrs"

// ErrUnknownLevel is returned by [ParseLevel] for names it does not recognise.
var ErrUnknownLevel = errors.NewSentinel("unknown log level")

type ContextHandler struct {
	slog.Handler
}

// NewContextHandler constructs a ContextHandler that adds the [slog.Attr] stored in [context.Context]
// to every record passed to the underlying [slog.Handler].
func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// Handle enriches the log record with [slog.Attr] stored in context with [WithAttrs].
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs returns a copy of ctx that carries attr for [ContextHandler].
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	existing, _ := ctx.Value(slogAttrs).([]slog.Attr)
	// Copy so that sibling contexts never share a backing array.
	attrs := make([]slog.Attr, 0, len(existing)+len(attr))
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr...)
	return context.WithValue(ctx, slogAttrs, attrs)
}

// ParseLevel maps debug, info, warn and error to their [slog.Level].
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Wrap(ErrUnknownLevel, "parse log level", slog.String("level", name))
	}
}
