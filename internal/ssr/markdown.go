// Package ssr renders the markdown snippets of the survey content into HTML for server-side rendered pages.
package ssr

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/net/html"
)

// render converts markdown to an HTML fragment. Raw HTML in the source is dropped.
func render(md string) []byte {
	// Parsers keep state between calls, so each render gets its own.
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Block renders markdown into an HTML fragment suitable for a block context.
func Block(md string) template.HTML {
	return template.HTML(render(md)) //nolint:gosec // renderer escapes text and skips raw HTML.
}

// Inline renders a single markdown line and unwraps the paragraph the renderer puts around it,
// so that the result fits inside elements such as <li>.
func Inline(md string) (template.HTML, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(render(md)))
	if err != nil {
		return "", fmt.Errorf("parse rendered markdown: %w", err)
	}

	nodes := doc.Find("body").Children()
	if nodes.Length() == 1 && goquery.NodeName(nodes) == "p" {
		nodes = nodes.Contents()
	} else {
		nodes = doc.Find("body").Contents()
	}

	var buf bytes.Buffer
	for _, n := range nodes.Nodes {
		if err = html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return template.HTML(bytes.TrimSpace(buf.Bytes())), nil //nolint:gosec // see Block.
}
