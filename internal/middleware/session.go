// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package middleware provides the HTTP middleware of the quizdeck server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"quizdeck/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	sessionKey contextKey = "session"
	csrfKey    contextKey = "csrf"
)

// Session loads the operator session named by the request cookie and
// stores it in the request context. A request without a live session
// gets a fresh one, so downstream handlers always see a session unless
// Valkey is unreachable; in that case the request continues without one.
func Session(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if sess == nil {
				sess, err = store.Create(r.Context(), w)
				if err != nil {
					slog.Warn("session create failed", "error", err)
					next.ServeHTTP(w, r)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromCtx extracts the session from the request context.
// Returns nil if none was loaded.
func SessionFromCtx(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
