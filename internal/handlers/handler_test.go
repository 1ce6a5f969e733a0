// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"quizdeck/internal/activity"
	"quizdeck/internal/cache"
	"quizdeck/internal/docstore/memory"
	"quizdeck/internal/importer"
	"quizdeck/internal/memo"
	"quizdeck/internal/middleware"
	"quizdeck/internal/models"
	"quizdeck/internal/render"
	"quizdeck/internal/session"
	"quizdeck/internal/storage"
	"quizdeck/internal/store"
)

// testMemoDelay keeps memo tests fast.
const testMemoDelay = 50 * time.Millisecond

// testEnv holds all dependencies for handler tests. The document store is
// in memory and Valkey is miniredis, so these tests need no services.
type testEnv struct {
	Docstore   *memory.Store
	Miniredis  *miniredis.Miniredis
	Valkey     *redis.Client
	Renderer   *render.Renderer
	Sessions   *session.Store
	Categories *store.CategoryStore
	Questions  *store.QuestionStore
	Tree       *cache.TreeCache
	Importer   *importer.Importer
	Memos      *memo.Saver
	Activity   *activity.Log
	Workspace  *Workspace

	// Session is the operator session attached by env.request.
	Session *session.Session
	cookies []*http.Cookie
}

// envOption adjusts the environment before the workspace is built.
type envOption func(*envConfig)

type envConfig struct {
	maxUpload int64
	archive   *storage.Client
	reloader  importer.Reloader
}

func withMaxUpload(n int64) envOption {
	return func(c *envConfig) { c.maxUpload = n }
}

func withArchive(a *storage.Client) envOption {
	return func(c *envConfig) { c.archive = a }
}

func withReloader(r importer.Reloader) envOption {
	return func(c *envConfig) { c.reloader = r }
}

// newTestEnv creates a complete test environment with a live session.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{maxUpload: 1 << 20}
	for _, o := range opts {
		o(&cfg)
	}

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	ds := memory.New()
	categories := store.NewCategoryStore(ds)
	questions := store.NewQuestionStore(ds)
	tree := cache.NewTreeCache(vk, categories, time.Minute)
	log := activity.New(vk, activity.DefaultMaxEntries)

	reloader := cfg.reloader
	if reloader == nil {
		reloader = tree
	}
	imp := importer.New(ds, categories, questions, reloader)

	memos := memo.New(questions, testMemoDelay, MemoResultLogger(log))
	t.Cleanup(memos.Close)

	sessions := session.NewStore(vk, false)

	env := &testEnv{
		Docstore:   ds,
		Miniredis:  mr,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Categories: categories,
		Questions:  questions,
		Tree:       tree,
		Importer:   imp,
		Memos:      memos,
		Activity:   log,
		Workspace:  NewWorkspace(renderer, sessions, categories, questions, tree, imp, memos, log, cfg.archive, cfg.maxUpload),
	}

	rr := httptest.NewRecorder()
	env.Session, err = sessions.Create(context.Background(), rr)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	env.cookies = rr.Result().Cookies()

	return env
}

// request builds a request carrying the env session and its cookie.
func (env *testEnv) request(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	for _, c := range env.cookies {
		req.AddCookie(c)
	}
	return req.WithContext(middleware.WithSession(req.Context(), env.Session))
}

// form builds a url-encoded request carrying the env session.
func (env *testEnv) form(method, target, body string) *http.Request {
	req := env.request(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// upload builds a multipart request with content in the "file" field.
func (env *testEnv) upload(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := env.request(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// storedSession reloads the env session from Valkey.
func (env *testEnv) storedSession(t *testing.T) *session.Data {
	t.Helper()
	sess, err := env.Sessions.Get(context.Background(), env.request(http.MethodGet, "/", nil))
	if err != nil || sess == nil {
		t.Fatalf("reload session: %v, %v", sess, err)
	}
	return sess.Data
}

// logMessages returns the env session's activity log messages.
func (env *testEnv) logMessages(t *testing.T) []string {
	t.Helper()
	entries, err := env.Activity.Entries(context.Background(), env.Session.ID)
	if err != nil {
		t.Fatalf("activity entries: %v", err)
	}
	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = string(e.Level) + ": " + e.Message
	}
	return msgs
}

// seedCategories imports the given category paths.
func (env *testEnv) seedCategories(t *testing.T, paths ...string) {
	t.Helper()
	if _, err := env.Importer.ImportCategories(context.Background(), strings.NewReader(strings.Join(paths, "\n"))); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
}

// seedQuestions imports rows; look questions up with env.question.
func (env *testEnv) seedQuestions(t *testing.T, rows ...importer.Row) {
	t.Helper()
	if _, err := env.Importer.ImportQuestions(context.Background(), rows); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
}

// categoryID resolves a slash-separated path to its document ID.
func (env *testEnv) categoryID(t *testing.T, path string) string {
	t.Helper()
	var parent *string
	var id string
	for _, name := range strings.Split(path, "/") {
		c, err := env.Categories.FindByNameAndParent(context.Background(), name, parent)
		if err != nil || c == nil {
			t.Fatalf("category %q not found: %v", path, err)
		}
		id = c.ID
		parent = &c.ID
	}
	return id
}

// question looks a question up by its business key.
func (env *testEnv) question(t *testing.T, key string) *models.Question {
	t.Helper()
	q, err := env.Questions.FindByQuestionID(context.Background(), key)
	if err != nil || q == nil {
		t.Fatalf("question %q not found: %v", key, err)
	}
	return q
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func containsAny(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
