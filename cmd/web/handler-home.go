package main

import (
	"fmt"
	"html/template"
	"net/http"
	"slices"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/ssr"
	"github.com/myrjola/learnpref/internal/survey"
)

type optionView struct {
	Code    string
	Text    template.HTML
	Checked bool
}

type questionView struct {
	Number  int
	Name    string
	Prompt  template.HTML
	Options []optionView
	Missing bool
}

type homeTemplateData struct {
	BaseTemplateData

	Labels       []string
	EvidenceNote []template.HTML
	Questions    []questionView
	// Missing is the number of unanswered questions after a premature submission and zero otherwise.
	Missing int
	Total   int
}

// questionFieldName is the form field of question i, 0-based.
func questionFieldName(i int) string {
	return fmt.Sprintf("q%d", i+1)
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.renderQuestionnaire(w, r, http.StatusOK, app.loadDraft(r), nil)
}

// renderQuestionnaire renders the form with the selections of draft checked. A non-nil incomplete highlights the
// unanswered questions.
func (app *application) renderQuestionnaire(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	draft survey.ResponseSet,
	incomplete *survey.IncompleteResponseError,
) {
	data, err := app.newHomeTemplateData(r, draft, incomplete)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "new home template data"))
		return
	}
	app.render(w, r, status, "home", data)
}

func (app *application) newHomeTemplateData(
	r *http.Request,
	draft survey.ResponseSet,
	incomplete *survey.IncompleteResponseError,
) (homeTemplateData, error) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Total:            app.engine.Len(),
	}
	for _, c := range survey.Categories() {
		data.Labels = append(data.Labels, app.engine.Label(c))
	}
	for _, line := range app.engine.EvidenceNote() {
		html, err := ssr.Inline(line)
		if err != nil {
			return data, errors.Wrap(err, "render evidence note")
		}
		data.EvidenceNote = append(data.EvidenceNote, html)
	}

	var missing []int
	if incomplete != nil {
		missing = incomplete.Missing
		data.Missing = incomplete.Count()
	}

	for i, q := range app.engine.Questions() {
		prompt, err := ssr.Inline(q.Prompt)
		if err != nil {
			return data, errors.Wrap(err, "render prompt")
		}
		view := questionView{
			Number:  i + 1,
			Name:    questionFieldName(i),
			Prompt:  prompt,
			Missing: slices.Contains(missing, i),
		}
		for _, opt := range q.Options {
			text, textErr := ssr.Inline(opt.Text)
			if textErr != nil {
				return data, errors.Wrap(textErr, "render option")
			}
			view.Options = append(view.Options, optionView{
				Code:    opt.Category.Code(),
				Text:    text,
				Checked: i < len(draft) && draft[i] == opt.Category,
			})
		}
		data.Questions = append(data.Questions, view)
	}
	return data, nil
}
