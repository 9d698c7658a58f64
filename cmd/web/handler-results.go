package main

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/ssr"
	"github.com/myrjola/learnpref/internal/survey"
)

type rankedView struct {
	Code    string
	Label   string
	Count   int
	Percent int
}

type resultsTemplateData struct {
	BaseTemplateData

	Total         int
	Ranked        []rankedView
	Primary       string
	Multimodal    bool
	Tactics       []template.HTML
	BestPractices []template.HTML
}

// results scores the submitted questionnaire.
//
// An incomplete submission re-renders the form with the answers kept. A complete one ends the questionnaire, so the
// draft is cleared.
func (app *application) results(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	responses, err := app.parseForm(r.PostForm)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "invalid questionnaire submission", errors.SlogError(err))
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	outcome, err := app.engine.Score(responses)
	var incomplete *survey.IncompleteResponseError
	switch {
	case errors.As(err, &incomplete):
		app.saveDraft(r, responses)
		app.logger.LogAttrs(ctx, slog.LevelDebug, "incomplete submission", slog.Any("incomplete", incomplete))
		app.renderQuestionnaire(w, r, http.StatusUnprocessableEntity, responses, incomplete)
		return
	case err != nil:
		app.serverError(w, r, errors.Wrap(err, "score"))
		return
	}

	app.clearDraft(r)
	data, err := app.newResultsTemplateData(r, outcome)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "new results template data"))
		return
	}
	app.render(w, r, http.StatusOK, "results", data)
}

// parseForm reads the radio group of every question. Missing groups are unanswered.
func (app *application) parseForm(form url.Values) (survey.ResponseSet, error) {
	codes := make([]string, app.engine.Len())
	for i := range codes {
		codes[i] = form.Get(questionFieldName(i))
	}
	return survey.ParseResponses(codes)
}

func (app *application) newResultsTemplateData(r *http.Request, outcome survey.Outcome) (resultsTemplateData, error) {
	data := resultsTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Total:            outcome.Total,
		Primary:          outcome.Top.Label,
		Multimodal:       outcome.Multimodal,
	}
	for _, ranked := range outcome.Ranked {
		data.Ranked = append(data.Ranked, rankedView{
			Code:    ranked.Category.Code(),
			Label:   ranked.Label,
			Count:   ranked.Count,
			Percent: ranked.Percent,
		})
	}
	var err error
	if data.Tactics, err = renderInlineList(outcome.Tactics); err != nil {
		return data, errors.Wrap(err, "render tactics")
	}
	if data.BestPractices, err = renderInlineList(app.engine.BestPractices()); err != nil {
		return data, errors.Wrap(err, "render best practices")
	}
	return data, nil
}

func renderInlineList(lines []string) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(lines))
	for _, line := range lines {
		html, err := ssr.Inline(line)
		if err != nil {
			return nil, err //nolint:wrapcheck // callers wrap.
		}
		out = append(out, html)
	}
	return out, nil
}
