package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError carries slog attributes and the call site so that logged errors are easier to trace.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter of the caller that created the error.
	pc uintptr
	// attrs are added to the log event when the error is logged with [SlogError].
	attrs []slog.Attr
	// wrapped is the underlying error, if any.
	wrapped error
}

// New creates an AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, nil, attrs)
}

// NewSentinel creates a plain error without other context. Use it for sentinels detected with [Is].
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap adds a message and slog attributes to err. Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotated(msg, err, attrs)
}

func newAnnotated(msg string, wrapped error, attrs []slog.Attr) AnnotatedError {
	var pcs [1]uintptr
	// Skip runtime.Callers, newAnnotated and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return AnnotatedError{
		msg:     msg,
		pc:      pcs[0],
		attrs:   attrs,
		wrapped: wrapped,
	}
}

// Error implements error interface.
func (err AnnotatedError) Error() string {
	if err.wrapped == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.wrapped.Error())
}

// Unwrap returns the wrapped error.
func (err AnnotatedError) Unwrap() error {
	return err.wrapped
}

// LogValue formats the error for useful logging.
func (err AnnotatedError) LogValue() slog.Value {
	frames := runtime.CallersFrames([]uintptr{err.pc})
	source, _ := frames.Next()
	attrs := []slog.Attr{slog.String("source", fmt.Sprintf("%s:%d", source.File, source.Line))}
	attrs = append(attrs, err.attrs...)
	return slog.GroupValue(attrs...)
}

// SlogError builds an "error" attribute with the message of err and the attributes collected along its chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	attrs := []slog.Attr{slog.String("msg", err.Error())}
	var (
		depth   int
		current = err
	)
	for current != nil {
		var annotated AnnotatedError
		if !errors.As(current, &annotated) {
			break
		}
		attrs = append(attrs, slog.Any(fmt.Sprintf("trace%d", depth), annotated.LogValue()))
		depth++
		current = annotated.wrapped
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
