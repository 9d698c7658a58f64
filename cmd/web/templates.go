package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/myrjola/learnpref/internal/contexthelpers"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/ui"
)

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// parsePageTemplates parses every page under ui/templates/pages together with the base layout.
//
// Each page directory has to define a template named "page".
func parsePageTemplates() (map[string]*template.Template, error) {
	templates := ui.Templates()
	entries, err := fs.ReadDir(templates, "pages")
	if err != nil {
		return nil, errors.Wrap(err, "read pages directory")
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pageName := entry.Name()
		// The FuncMap has to exist before parsing. render replaces the functions per request.
		t, parseErr := template.New(pageName).Funcs(template.FuncMap{
			"nonce": func() template.HTMLAttr { return "" },
			"csrf":  func() template.HTML { return "" },
		}).ParseFS(templates, "base.gohtml", fmt.Sprintf("pages/%s/*.gohtml", pageName))
		if parseErr != nil {
			return nil, errors.Wrap(parseErr, "parse page template", slog.String("page", pageName))
		}
		pages[pageName] = t
	}
	return pages, nil
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	base, ok := app.pages[page]
	if !ok {
		app.serverError(w, r, errors.New("page template not found", slog.String("template", page)))
		return
	}

	// Clone so that concurrent requests do not share the per-request functions.
	t, err := base.Clone()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone template", slog.String("template", page)))
		return
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s"/>`,
		template.HTMLEscapeString(contexthelpers.CSRFToken(ctx)))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // the nonce is generated by the server.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is generated by the server and escaped.
		},
	})

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
