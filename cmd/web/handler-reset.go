package main

import "net/http"

// reset discards the answers in progress and starts the questionnaire over.
func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	app.clearDraft(r)
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
