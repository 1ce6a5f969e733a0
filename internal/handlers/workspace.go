// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the quizdeck workspace.
// Handlers receive their dependencies through the Workspace struct.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizdeck/internal/activity"
	"quizdeck/internal/cache"
	"quizdeck/internal/importer"
	"quizdeck/internal/memo"
	"quizdeck/internal/middleware"
	"quizdeck/internal/models"
	"quizdeck/internal/render"
	"quizdeck/internal/session"
	"quizdeck/internal/storage"
	"quizdeck/internal/store"
)

// Events sent to the page through the HX-Trigger header.
const (
	eventActivity     = "activity"
	eventTreeReloaded = "tree-reloaded"
)

// Workspace groups the workspace HTTP handlers and their dependencies.
type Workspace struct {
	renderer   *render.Renderer
	sessions   *session.Store
	categories *store.CategoryStore
	questions  *store.QuestionStore
	tree       *cache.TreeCache
	importer   *importer.Importer
	memos      *memo.Saver
	activity   *activity.Log
	archive    *storage.Client
	maxUpload  int64
}

// NewWorkspace creates the workspace handlers. archive may be nil when
// upload archiving is not configured.
func NewWorkspace(renderer *render.Renderer, sessions *session.Store, categories *store.CategoryStore, questions *store.QuestionStore, tree *cache.TreeCache, imp *importer.Importer, memos *memo.Saver, activityLog *activity.Log, archive *storage.Client, maxUpload int64) *Workspace {
	return &Workspace{
		renderer:   renderer,
		sessions:   sessions,
		categories: categories,
		questions:  questions,
		tree:       tree,
		importer:   imp,
		memos:      memos,
		activity:   activityLog,
		archive:    archive,
		maxUpload:  maxUpload,
	}
}

// Index renders the workspace: the tree, the restored selection and the log.
// A stored selection whose category no longer exists is cleared.
func (ws *Workspace) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	root, err := ws.tree.Tree(ctx)
	if err != nil {
		slog.Error("load tree failed", "error", err)
		http.Error(w, "Failed to load categories.", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Tree": render.NewTreeView(root, nil),
		"Log":  ws.logView(ctx, sess),
	}
	var flashes []render.Flash

	if sess != nil && sess.Data.SelectedCategoryID != "" {
		view, err := ws.questionsView(ctx, sess.Data.SelectedCategoryID)
		switch {
		case err != nil:
			slog.Error("restore selection failed", "category_id", sess.Data.SelectedCategoryID, "error", err)
		case view == nil:
			sess.Data.SelectedCategoryID = ""
			ws.saveSession(ctx, sess)
			flashes = append(flashes, render.Flash{
				Type:    "warning",
				Message: "The previously selected category no longer exists.",
			})
		default:
			data["Tree"] = render.NewTreeView(root, view.Path)
			data["Questions"] = view
		}
	}

	ws.renderer.Page(w, r, "workspace", &render.PageData{
		Title:   "Workspace",
		Data:    data,
		Flashes: flashes,
	})
}

// Tree renders the tree fragment with the session's selection expanded.
func (ws *Workspace) Tree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	root, err := ws.tree.Tree(ctx)
	if err != nil {
		slog.Error("load tree failed", "error", err)
		http.Error(w, "Failed to load categories.", http.StatusInternalServerError)
		return
	}

	var path []models.Category
	if sess := middleware.SessionFromCtx(ctx); sess != nil && sess.Data.SelectedCategoryID != "" {
		path, err = ws.categories.Ancestors(ctx, sess.Data.SelectedCategoryID)
		if err != nil {
			slog.Warn("load selection path failed", "error", err)
		}
	}

	ws.renderer.Fragment(w, "tree", render.NewTreeView(root, path))
}

// TreeJSON returns the category tree as JSON.
func (ws *Workspace) TreeJSON(w http.ResponseWriter, r *http.Request) {
	root, err := ws.tree.Tree(r.Context())
	if err != nil {
		slog.Error("load tree failed", "error", err)
		writeError(w, "Failed to load categories.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

// Questions renders the questions of a category and stores it as the
// session's selection.
func (ws *Workspace) Questions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	sess := middleware.SessionFromCtx(ctx)

	view, err := ws.questionsView(ctx, id)
	if err != nil {
		slog.Error("load questions failed", "category_id", id, "error", err)
		http.Error(w, "Failed to load questions.", http.StatusInternalServerError)
		return
	}
	if view == nil {
		if sess != nil && sess.Data.SelectedCategoryID == id {
			sess.Data.SelectedCategoryID = ""
			ws.saveSession(ctx, sess)
		}
		http.Error(w, "Category not found.", http.StatusNotFound)
		return
	}

	if sess != nil && sess.Data.SelectedCategoryID != id {
		sess.Data.SelectedCategoryID = id
		ws.saveSession(ctx, sess)
	}

	ws.renderer.Fragment(w, "questions", view)
}

// Log renders the session's activity log.
func (ws *Workspace) Log(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws.renderer.Fragment(w, "log", ws.logView(ctx, middleware.SessionFromCtx(ctx)))
}

// SetLogPanel stores whether the log panel is shown.
func (ws *Workspace) SetLogPanel(w http.ResponseWriter, r *http.Request) {
	visible, err := strconv.ParseBool(r.FormValue("visible"))
	if err != nil {
		http.Error(w, "visible must be true or false.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Error(w, "Session unavailable.", http.StatusServiceUnavailable)
		return
	}

	sess.Data.LogPanelHidden = !visible
	if err := ws.sessions.Save(ctx, sess); err != nil {
		slog.Error("save log panel state failed", "error", err)
		http.Error(w, "Failed to save state.", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearLog empties the session's activity log.
func (ws *Workspace) ClearLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Error(w, "Session unavailable.", http.StatusServiceUnavailable)
		return
	}

	if err := ws.activity.Clear(ctx, sess.ID); err != nil {
		slog.Error("clear activity log failed", "error", err)
		http.Error(w, "Failed to clear the log.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("HX-Trigger", eventActivity)
	w.WriteHeader(http.StatusNoContent)
}

// Reset forgets the operator's workspace state: the selection, the log
// panel flag and the activity log. The next request starts a new session.
func (ws *Workspace) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		if err := ws.activity.Clear(ctx, sess.ID); err != nil {
			slog.Warn("clear activity log on reset failed", "error", err)
		}
	}

	if err := ws.sessions.Destroy(ctx, w, r); err != nil {
		slog.Error("destroy session failed", "error", err)
		http.Error(w, "Failed to reset the workspace.", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// questionsView loads a category with its ancestors and questions.
// Returns nil if the category does not exist.
func (ws *Workspace) questionsView(ctx context.Context, categoryID string) (*render.QuestionsView, error) {
	category, err := ws.categories.FindByID(ctx, categoryID)
	if err != nil || category == nil {
		return nil, err
	}

	path, err := ws.categories.Ancestors(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	items, err := ws.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	view := render.NewQuestionsView(category, path, items)
	return &view, nil
}

// logView loads the session's log. A read failure shows an empty log.
func (ws *Workspace) logView(ctx context.Context, sess *session.Session) render.LogView {
	if sess == nil {
		return render.LogView{Visible: true}
	}

	view := render.LogView{Visible: sess.Data.LogPanelVisible()}
	entries, err := ws.activity.Entries(ctx, sess.ID)
	if err != nil {
		slog.Warn("load activity log failed", "error", err)
		return view
	}
	view.Entries = entries
	return view
}

// record appends to the session's activity log, if there is a session.
func (ws *Workspace) record(ctx context.Context, sess *session.Session, level activity.Level, format string, args ...any) {
	if sess == nil {
		return
	}
	ws.activity.Record(ctx, sess.ID, level, format, args...)
}

func (ws *Workspace) saveSession(ctx context.Context, sess *session.Session) {
	if err := ws.sessions.Save(ctx, sess); err != nil {
		slog.Warn("save session failed", "error", err)
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode json response failed", "error", err)
	}
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
