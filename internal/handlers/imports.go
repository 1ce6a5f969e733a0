// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"quizdeck/internal/activity"
	"quizdeck/internal/importer"
	"quizdeck/internal/middleware"
	"quizdeck/internal/session"
	"quizdeck/internal/storage"
)

// formOverhead is the room left for multipart headers beyond the file.
const formOverhead = 64 << 10

// upload is a file read from an import request.
type upload struct {
	filename    string
	contentType string
	data        []byte
}

// ImportCategories replaces the category tree with the uploaded paths.
func (ws *Workspace) ImportCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	up, ok := ws.readUpload(w, r, storage.KindCategories)
	if !ok {
		return
	}
	ws.record(ctx, sess, activity.LevelStatus, "Importing categories from %s", up.filename)

	result, err := ws.importer.ImportCategories(ctx, bytes.NewReader(up.data))
	if err != nil {
		ws.importFailed(ctx, w, sess, "Category import", err)
		return
	}

	ws.record(ctx, sess, activity.LevelSuccess,
		"Category import finished: %d paths, %d categories created, %d removed",
		result.Paths, result.Created, result.Deleted)

	w.Header().Set("HX-Trigger", eventTreeReloaded+", "+eventActivity)
	writeJSON(w, http.StatusOK, result)
}

// ImportQuestions imports an uploaded question sheet. The whole sheet is
// rejected when any row fails validation.
func (ws *Workspace) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	up, ok := ws.readUpload(w, r, storage.KindQuestions)
	if !ok {
		return
	}
	ws.record(ctx, sess, activity.LevelStatus, "Importing questions from %s", up.filename)

	result, err := ws.importer.ImportQuestionFile(ctx, up.filename, bytes.NewReader(up.data))
	if err != nil {
		ws.importFailed(ctx, w, sess, "Question import", err)
		return
	}

	ws.record(ctx, sess, activity.LevelSuccess,
		"Question import finished: %d imported, %d skipped, %d categories created",
		result.Imported, result.Skipped, result.CategoriesCreated)
	if result.Skipped > 0 {
		ws.record(ctx, sess, activity.LevelWarning,
			"%d rows had no question text or category and were skipped", result.Skipped)
	}

	w.Header().Set("HX-Trigger", eventTreeReloaded+", "+eventActivity)
	writeJSON(w, http.StatusOK, result)
}

// readUpload reads the "file" field of a multipart request and archives
// it when archiving is configured. On failure it writes the response and
// returns false.
func (ws *Workspace) readUpload(w http.ResponseWriter, r *http.Request, kind storage.Kind) (*upload, bool) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	limitMB := ws.maxUpload >> 20

	reject := func(msg string, status int) (*upload, bool) {
		ws.record(ctx, sess, activity.LevelError, "Upload rejected: %s", msg)
		w.Header().Set("HX-Trigger", eventActivity)
		writeError(w, msg, status)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, ws.maxUpload+formOverhead)
	if err := r.ParseMultipartForm(ws.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return reject(fmt.Sprintf("File too large. Maximum size is %d MB.", limitMB), http.StatusRequestEntityTooLarge)
		}
		return reject("Expected a multipart form upload.", http.StatusBadRequest)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return reject("No file provided.", http.StatusBadRequest)
	}
	defer file.Close()

	if header.Size > ws.maxUpload {
		return reject(fmt.Sprintf("File too large. Maximum size is %d MB.", limitMB), http.StatusRequestEntityTooLarge)
	}
	if msg := validateUpload(kind, header.Filename); msg != "" {
		return reject(msg, http.StatusBadRequest)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload failed", "error", err)
		return reject("Failed to read file.", http.StatusInternalServerError)
	}

	up := &upload{
		filename:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}
	if up.contentType == "" {
		up.contentType = http.DetectContentType(data)
	}

	ws.archiveUpload(ctx, sess, kind, up)
	return up, true
}

// archiveUpload copies the upload to object storage. Failures are logged
// and never stop the import.
func (ws *Workspace) archiveUpload(ctx context.Context, sess *session.Session, kind storage.Kind, up *upload) {
	if ws.archive == nil {
		return
	}

	key, err := ws.archive.Archive(ctx, kind, up.filename, up.contentType, up.data)
	if err != nil {
		slog.Warn("upload archive failed", "kind", kind, "filename", up.filename, "error", err)
		ws.record(ctx, sess, activity.LevelWarning, "Upload could not be archived: %s", up.filename)
		return
	}
	slog.Info("upload archived", "kind", kind, "bucket", ws.archive.Bucket(), "key", key, "size", len(up.data))
}

// importFailed maps an import error to a status, logs it to the session's
// activity log and writes the JSON error.
func (ws *Workspace) importFailed(ctx context.Context, w http.ResponseWriter, sess *session.Session, label string, err error) {
	status := http.StatusInternalServerError
	msg := fmt.Sprintf("%s failed: %v", label, err)

	switch {
	case errors.Is(err, importer.ErrImportInProgress):
		status = http.StatusConflict
		msg = "Another import is still running. Try again when it finishes."
	case importer.IsInputError(err):
		status = http.StatusBadRequest
	default:
		slog.Error("import failed", "import", strings.ToLower(label), "error", err)
	}

	ws.record(ctx, sess, activity.LevelError, "%s", msg)
	w.Header().Set("HX-Trigger", eventActivity)
	writeError(w, msg, status)
}
