package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/justinas/nosurf"
	"github.com/myrjola/learnpref/internal/contexthelpers"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/logging"
	"github.com/myrjola/learnpref/internal/random"
)

const cspNonceLength = 24

func (app *application) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := random.Letters(cspNonceLength)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "generate CSP nonce"))
			return
		}
		r = contexthelpers.SetCSPNonce(r, nonce)

		w.Header().Set("Content-Security-Policy",
			fmt.Sprintf("default-src 'self'; script-src 'nonce-%s' 'strict-dynamic'; style-src 'self'; "+
				"object-src 'none'; base-uri 'none'; form-action 'self'; frame-ancestors 'none'", nonce))
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func cacheForeverHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

		next.ServeHTTP(w, r)
	})
}

// logRequest tags the request with a fresh id that every log line written during the request carries.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			start     = time.Now()
			requestID = uuid.NewString()
			proto     = r.Proto
			method    = r.Method
			uri       = r.URL.RequestURI()
		)

		ctx := logging.WithAttrs(r.Context(), slog.String("request_id", requestID))
		r = contexthelpers.SetRequestID(r.WithContext(ctx), requestID)
		w.Header().Set("X-Request-Id", requestID)

		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request",
			slog.String("proto", proto), slog.String("method", method), slog.String("uri", uri))

		next.ServeHTTP(w, r)

		app.logger.LogAttrs(ctx, slog.LevelDebug, "handled request", slog.Duration("duration", time.Since(start)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New("recovered panic", slog.String("panic", fmt.Sprint(err))))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "CSRF check failed",
			slog.Any("reason", nosurf.Reason(r)))
		app.clientError(w, r, http.StatusBadRequest)
	}))

	return csrfHandler
}
