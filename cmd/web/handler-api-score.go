package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
)

const maxScoreRequestBytes = 64 << 10

type scoreRequest struct {
	// Answers holds one category code per question in order. An empty string leaves the question unanswered.
	Answers []string `json:"answers"`
}

type scoreErrorResponse struct {
	Error string `json:"error"`
	// Missing lists the 1-based numbers of unanswered questions.
	Missing []int `json:"missing,omitempty"`
}

// apiScore scores a response set posted as JSON and replies with the outcome.
func (app *application) apiScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxScoreRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req scoreRequest
	if err := dec.Decode(&req); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "malformed score request", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusBadRequest, scoreErrorResponse{Error: "malformed JSON body"})
		return
	}

	responses, err := survey.ParseResponses(req.Answers)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "invalid score request", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusBadRequest, scoreErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := app.engine.Score(responses)
	var (
		incomplete *survey.IncompleteResponseError
		invalid    *survey.InvalidCategoryError
	)
	switch {
	case errors.As(err, &incomplete):
		app.writeJSON(w, r, http.StatusUnprocessableEntity, scoreErrorResponse{
			Error:   incomplete.Error(),
			Missing: incomplete.Numbers(),
		})
	case errors.Is(err, survey.ErrTooManyResponses), errors.As(err, &invalid):
		app.logger.LogAttrs(ctx, slog.LevelWarn, "invalid score request", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusBadRequest, scoreErrorResponse{Error: err.Error()})
	case err != nil:
		app.serverError(w, r, errors.Wrap(err, "score"))
	default:
		app.writeJSON(w, r, http.StatusOK, outcome)
	}
}
