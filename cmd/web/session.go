package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
)

// draftSessionKey holds the encoded, possibly partial, answers of the questionnaire in progress.
const draftSessionKey = "draft"

// loadDraft returns the answers saved in the session or a fresh set.
//
// A draft that no longer fits the question bank, for example after the content changed, is discarded.
func (app *application) loadDraft(r *http.Request) survey.ResponseSet {
	ctx := r.Context()
	encoded := app.sessionManager.GetString(ctx, draftSessionKey)
	if encoded == "" {
		return app.engine.NewResponseSet()
	}
	draft, err := survey.DecodeResponseSet(encoded)
	if err == nil && len(draft) != app.engine.Len() {
		err = errors.New("draft length does not match question bank",
			slog.Int("draft", len(draft)), slog.Int("questions", app.engine.Len()))
	}
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "discarding draft", errors.SlogError(err))
		app.sessionManager.Remove(ctx, draftSessionKey)
		return app.engine.NewResponseSet()
	}
	return draft
}

func (app *application) saveDraft(r *http.Request, draft survey.ResponseSet) {
	app.sessionManager.Put(r.Context(), draftSessionKey, draft.Encode())
}

func (app *application) clearDraft(r *http.Request) {
	app.sessionManager.Remove(r.Context(), draftSessionKey)
}
