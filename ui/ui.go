// Package ui embeds the HTML templates and static assets of the web server.
//
// Templates live in templates/. Every page is a directory under templates/pages that defines a template named
// "page" rendered inside templates/base.gohtml.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err) // The directory is embedded at compile time.
	}
	return sub
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err) // The directory is embedded at compile time.
	}
	return sub
}
