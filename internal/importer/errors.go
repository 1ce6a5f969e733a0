// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingQuestionID means a row has question text and a category
	// but a blank business key.
	ErrMissingQuestionID = errors.New("question id is required")

	// ErrDuplicateQuestionID means the key appears more than once in the upload.
	ErrDuplicateQuestionID = errors.New("duplicate question id in file")

	// ErrQuestionExists means a question with the key is already stored.
	ErrQuestionExists = errors.New("question id already exists")

	// ErrMalformedInput means the upload could not be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsupportedFormat means the file type is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrImportInProgress means another import is still running.
	ErrImportInProgress = errors.New("an import is already in progress")
)

// RowError ties a validation failure to the row and key that caused it.
type RowError struct {
	Row        int
	QuestionID string
	Err        error
}

func (e *RowError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: %v: %s", e.Row, e.Err, e.QuestionID)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err came from a bad upload rather than a
// store failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMissingQuestionID) ||
		errors.Is(err, ErrDuplicateQuestionID) ||
		errors.Is(err, ErrQuestionExists)
}

