// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// quizdeck workspace.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quizdeck/internal/handlers"
	"quizdeck/internal/middleware"
	"quizdeck/internal/session"
	"quizdeck/web"
)

// Options tunes the middleware stack.
type Options struct {
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
	// ImportLimiter, if set, rate-limits the import endpoints.
	ImportLimiter *middleware.RateLimiter
}

// New creates and returns the configured chi router.
func New(sessionStore *session.Store, ws *handlers.Workspace, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check and static assets: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessionStore))
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Get("/", ws.Index)
		r.Get("/tree", ws.Tree)
		r.Get("/api/tree", ws.TreeJSON)
		r.Get("/categories/{id}/questions", ws.Questions)
		r.Get("/log", ws.Log)
		r.Delete("/log", ws.ClearLog)
		r.Put("/state/log-panel", ws.SetLogPanel)
		r.Post("/state/reset", ws.Reset)

		r.Route("/imports", func(r chi.Router) {
			if opts.ImportLimiter != nil {
				r.Use(opts.ImportLimiter.Middleware)
			}
			r.Post("/categories", ws.ImportCategories)
			r.Post("/questions", ws.ImportQuestions)
		})

		r.Route("/questions/{id}", func(r chi.Router) {
			r.Put("/memo", ws.SaveMemo)
			r.Post("/answer", ws.CheckAnswer)
		})
	})

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
