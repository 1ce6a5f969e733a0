// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the workspace.
// It supports full-page and htmx partial rendering, detecting the request
// type via the HX-Request header, and renders the tree, question and log
// fragments that htmx swaps in.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"quizdeck/internal/activity"
	"quizdeck/internal/markdown"
	"quizdeck/internal/middleware"
	"quizdeck/internal/session"
)

//go:embed templates
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string           // Page title for <title> tag
	Session   *session.Session // Current operator session (nil if Valkey is down)
	CSRFToken string           // CSRF token for htmx headers
	Data      map[string]any   // Page-specific data
	Flashes   []Flash          // One-time notification messages
}

// Flash represents a one-time notification message displayed to the operator.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	funcMap   template.FuncMap
}

// New parses the embedded templates. Every page is paired with the base
// layout and the shared partials; partials are also parsed on their own
// for fragment responses.
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"markdown": markdown.Render,
			// levelClass maps an activity level to its CSS class.
			"levelClass": func(l activity.Level) string {
				return "log-" + string(l)
			},
			"clock": func(t time.Time) string {
				return t.Local().Format("15:04:05")
			},
			// dict builds a map from key/value pairs so recursive templates
			// can receive more than one value.
			"dict": func(pairs ...any) (map[string]any, error) {
				if len(pairs)%2 != 0 {
					return nil, fmt.Errorf("dict: odd number of arguments")
				}
				m := make(map[string]any, len(pairs)/2)
				for i := 0; i < len(pairs); i += 2 {
					key, ok := pairs[i].(string)
					if !ok {
						return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
					}
					m[key] = pairs[i+1]
				}
				return m, nil
			},
		},
	}

	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	r.fragments, err = template.New("fragments").Funcs(r.funcMap).ParseFS(templateFS, partials...)
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		if name == "base" {
			continue
		}

		files := append([]string{"templates/base.html", page}, partials...)
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Page renders a full page or, for htmx requests, only its "content" block.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	}
	rn.execute(w, tmpl, execName, data)
}

// Fragment renders one of the shared partials ("tree", "questions", "log").
func (rn *Renderer) Fragment(w http.ResponseWriter, name string, data any) {
	if rn.fragments.Lookup(name) == nil {
		http.Error(w, fmt.Sprintf("fragment %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.execute(w, rn.fragments, name, data)
}

// execute buffers the output so a template error yields a clean 500.
func (rn *Renderer) execute(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// isHTMX returns true if the request was made by htmx (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
