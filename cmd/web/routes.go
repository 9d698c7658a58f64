package main

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/myrjola/learnpref/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServerFS(ui.Static())
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", fileServer)))

	mux.HandleFunc("GET /api/healthy", app.healthy)
	// The JSON API keeps no session state, so it bypasses sessions and CSRF protection.
	mux.HandleFunc("POST /api/score", app.apiScore)

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /results", session.ThenFunc(app.results))
	mux.Handle("POST /reset", session.ThenFunc(app.reset))

	standard := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders)
	return standard.Then(timeoutHandler(mux, defaultTimeout))
}
