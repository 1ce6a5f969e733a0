// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quizdeck/internal/activity"
	"quizdeck/internal/memo"
	"quizdeck/internal/middleware"
	"quizdeck/internal/models"
)

// answerResult is the response of CheckAnswer.
type answerResult struct {
	Correct bool   `json:"correct"`
	Label   string `json:"label"`
}

// CheckAnswer checks the operator's O/X pick against the question.
// A wrong pick is recorded as a warning in the activity log.
func (ws *Workspace) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	choice, err := models.ParseChoice(r.FormValue("choice"))
	if err != nil {
		writeError(w, "choice must be O or X.", http.StatusBadRequest)
		return
	}

	q, err := ws.questions.FindByID(ctx, id)
	if err != nil {
		slog.Error("load question failed", "id", id, "error", err)
		writeError(w, "Failed to load question.", http.StatusInternalServerError)
		return
	}
	if q == nil {
		writeError(w, "Question not found.", http.StatusNotFound)
		return
	}

	correct := q.Check(choice)
	if !correct {
		ws.record(ctx, middleware.SessionFromCtx(ctx), activity.LevelWarning,
			"Wrong answer for %s: picked %s, correct is %s", questionLabel(q), choice, q.AnswerLabel())
		w.Header().Set("HX-Trigger", eventActivity)
	}

	writeJSON(w, http.StatusOK, answerResult{Correct: correct, Label: q.AnswerLabel()})
}

// SaveMemo schedules a memo save. Edits arriving within the save delay
// replace each other, so only the last one is written.
func (ws *Workspace) SaveMemo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	text := r.FormValue("memo")

	if msg := validateMemo(text); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	q, err := ws.questions.FindByID(ctx, id)
	if err != nil {
		slog.Error("load question failed", "id", id, "error", err)
		writeError(w, "Failed to load question.", http.StatusInternalServerError)
		return
	}
	if q == nil {
		writeError(w, "Question not found.", http.StatusNotFound)
		return
	}

	sessionID := ""
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		sessionID = sess.ID
	}

	if err := ws.memos.Schedule(sessionID, id, text); err != nil {
		if errors.Is(err, memo.ErrClosed) {
			writeError(w, "Server is shutting down.", http.StatusServiceUnavailable)
			return
		}
		slog.Error("schedule memo failed", "id", id, "error", err)
		writeError(w, "Failed to save memo.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// MemoResultLogger returns the memo saver callback that reports each
// save to the originating session's activity log.
func MemoResultLogger(log *activity.Log) func(memo.Result) {
	return func(res memo.Result) {
		if res.SessionID == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		switch res.Outcome {
		case memo.Saved:
			log.Record(ctx, res.SessionID, activity.LevelSuccess, "Memo saved")
		case memo.Failed:
			log.Record(ctx, res.SessionID, activity.LevelError, "Memo save failed: %v", res.Err)
		}
	}
}

// questionLabel names a question in log lines.
func questionLabel(q *models.Question) string {
	if q.QuestionID != "" {
		return q.QuestionID
	}
	return q.ID
}
