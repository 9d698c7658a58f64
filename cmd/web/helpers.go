package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/learnpref/internal/errors"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

// writeJSON encodes data as the JSON response body with the given status.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal json"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
