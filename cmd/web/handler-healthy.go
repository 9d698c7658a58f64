package main

import (
	"net/http"

	"github.com/myrjola/learnpref/internal/errors"
)

type healthResponse struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
}

// healthy responds with a JSON object indicating that the server and its database are reachable.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.db.Ping(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "ping database"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Questions: app.engine.Len()})
}
