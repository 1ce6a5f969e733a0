// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizdeck/internal/activity"
	"quizdeck/internal/importer"
	"quizdeck/internal/middleware"
	"quizdeck/internal/models"
	"quizdeck/internal/session"
)

func TestIndexEmpty(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Workspace.Index(rr, env.request(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "No categories yet") {
		t.Error("empty workspace should prompt for a category upload")
	}
	if !strings.Contains(body, "Select a category") {
		t.Error("no selection should show the placeholder")
	}
}

func TestIndexRestoresSelection(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t, "Math/Algebra", "Korean")
	env.seedQuestions(t, importer.Row{Line: 2, QuestionID: "M-1", Text: "x+x=2x", Answer: true, Category: "Math/Algebra"})

	env.Session.Data.SelectedCategoryID = env.categoryID(t, "Math/Algebra")

	rr := httptest.NewRecorder()
	env.Workspace.Index(rr, env.request(http.MethodGet, "/", nil))

	body := rr.Body.String()
	if !strings.Contains(body, "x+x=2x") {
		t.Error("restored selection should render its questions")
	}
	if !strings.Contains(body, "<details open>") {
		t.Error("ancestors of the selection should be expanded")
	}
}

func TestIndexClearsMissingSelection(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t, "Math")

	env.Session.Data.SelectedCategoryID = "gone"

	rr := httptest.NewRecorder()
	env.Workspace.Index(rr, env.request(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "no longer exists") {
		t.Error("expected a flash about the missing selection")
	}
	if got := env.storedSession(t).SelectedCategoryID; got != "" {
		t.Errorf("stored selection: got %q, want cleared", got)
	}
}

func TestIndexWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Workspace.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestTreeJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t, "Math/Algebra", "Math/Geometry", "Korean")

	rr := httptest.NewRecorder()
	env.Workspace.TreeJSON(rr, env.request(http.MethodGet, "/api/tree", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q", ct)
	}

	var root models.CategoryNode
	if err := json.NewDecoder(rr.Body).Decode(&root); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root.Name != models.TreeRootName || root.Depth != -1 {
		t.Errorf("root: got %q depth %d", root.Name, root.Depth)
	}
	if len(root.Children) != 2 || root.Children[0].Name != "Math" || root.Children[1].Name != "Korean" {
		t.Fatalf("roots: got %+v", root.Children)
	}
	math := root.Children[0]
	if len(math.Children) != 2 || math.Children[0].Name != "Algebra" || math.Children[1].Name != "Geometry" {
		t.Errorf("Math children: got %+v", math.Children)
	}
}

func TestTreeFragmentExpandsSelection(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t, "Math/Algebra/Linear")
	env.Session.Data.SelectedCategoryID = env.categoryID(t, "Math/Algebra/Linear")

	rr := httptest.NewRecorder()
	env.Workspace.Tree(rr, env.request(http.MethodGet, "/tree", nil))

	body := rr.Body.String()
	if strings.Count(body, "<details open>") != 2 {
		t.Errorf("expected Math and Algebra expanded, got body %q", body)
	}
	if !strings.Contains(body, "selected") {
		t.Error("selected node should be marked")
	}
}

func TestQuestionsStoresSelection(t *testing.T) {
	env := newTestEnv(t)
	env.seedQuestions(t,
		importer.Row{Line: 2, QuestionID: "나-2", Text: "second", Category: "Korean"},
		importer.Row{Line: 3, QuestionID: "가-1", Text: "first", Answer: "o", Category: "Korean"},
	)
	id := env.categoryID(t, "Korean")

	req := withChiURLParam(env.request(http.MethodGet, "/categories/"+id+"/questions", nil), "id", id)
	rr := httptest.NewRecorder()
	env.Workspace.Questions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if strings.Index(body, "first") > strings.Index(body, "second") {
		t.Error("questions should be ordered by question id")
	}
	if got := env.storedSession(t).SelectedCategoryID; got != id {
		t.Errorf("stored selection: got %q, want %q", got, id)
	}
}

func TestQuestionsMissingCategory(t *testing.T) {
	env := newTestEnv(t)
	env.Session.Data.SelectedCategoryID = "gone"
	if err := env.Sessions.Save(context.Background(), env.Session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := withChiURLParam(env.request(http.MethodGet, "/categories/gone/questions", nil), "id", "gone")
	rr := httptest.NewRecorder()
	env.Workspace.Questions(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if got := env.storedSession(t).SelectedCategoryID; got != "" {
		t.Errorf("stored selection: got %q, want cleared", got)
	}
}

func TestSetLogPanel(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Workspace.SetLogPanel(rr, env.form(http.MethodPut, "/state/log-panel", "visible=false"))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if !env.storedSession(t).LogPanelHidden {
		t.Error("log panel should be stored as hidden")
	}

	rr = httptest.NewRecorder()
	env.Workspace.SetLogPanel(rr, env.form(http.MethodPut, "/state/log-panel", "visible=true"))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if env.storedSession(t).LogPanelHidden {
		t.Error("log panel should be stored as visible")
	}
}

func TestSetLogPanelInvalid(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Workspace.SetLogPanel(rr, env.form(http.MethodPut, "/state/log-panel", "visible=maybe"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid value: got %d, want 400", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/state/log-panel", strings.NewReader("visible=true"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	env.Workspace.SetLogPanel(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("no session: got %d, want 503", rr.Code)
	}
}

func TestLogFragment(t *testing.T) {
	env := newTestEnv(t)
	env.Activity.Record(context.Background(), env.Session.ID, activity.LevelError, "import failed: %s", "boom")

	rr := httptest.NewRecorder()
	env.Workspace.Log(rr, env.request(http.MethodGet, "/log", nil))

	body := rr.Body.String()
	if !strings.Contains(body, "import failed: boom") || !strings.Contains(body, "log-error") {
		t.Errorf("log fragment: got %q", body)
	}
}

func TestLogFragmentIsPerSession(t *testing.T) {
	env := newTestEnv(t)
	env.Activity.Record(context.Background(), "someone-else", activity.LevelStatus, "not yours")

	rr := httptest.NewRecorder()
	env.Workspace.Log(rr, env.request(http.MethodGet, "/log", nil))

	if strings.Contains(rr.Body.String(), "not yours") {
		t.Error("log should only show the caller's entries")
	}
}

func TestSessionFromMiddlewareReachesHandlers(t *testing.T) {
	env := newTestEnv(t)
	handler := middleware.Session(env.Sessions)(http.HandlerFunc(env.Workspace.Log))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/log", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Ready.") {
		t.Error("a new session should show an empty log")
	}
}

func TestClearLog(t *testing.T) {
	env := newTestEnv(t)
	env.Activity.Record(context.Background(), env.Session.ID, activity.LevelStatus, "something happened")

	rr := httptest.NewRecorder()
	env.Workspace.ClearLog(rr, env.request(http.MethodDelete, "/log", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("HX-Trigger"); got != eventActivity {
		t.Errorf("HX-Trigger: got %q", got)
	}
	if msgs := env.logMessages(t); len(msgs) != 0 {
		t.Errorf("log not cleared: %v", msgs)
	}

	rr = httptest.NewRecorder()
	env.Workspace.ClearLog(rr, httptest.NewRequest(http.MethodDelete, "/log", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("no session: got %d, want 503", rr.Code)
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.Session.Data.SelectedCategoryID = "some-category"
	if err := env.Sessions.Save(ctx, env.Session); err != nil {
		t.Fatalf("save session: %v", err)
	}
	env.Activity.Record(ctx, env.Session.ID, activity.LevelStatus, "before reset")

	req := env.request(http.MethodPost, "/state/reset", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	env.Workspace.Reset(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect: got %q", got)
	}
	if msgs := env.logMessages(t); len(msgs) != 0 {
		t.Errorf("log not cleared: %v", msgs)
	}

	sess, err := env.Sessions.Get(ctx, env.request(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess != nil {
		t.Error("session should be gone after reset")
	}

	var expired bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie not expired")
	}
}

func TestResetWithoutHTMXRedirects(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Workspace.Reset(rr, env.request(http.MethodPost, "/state/reset", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Errorf("Location: got %q", got)
	}
}
