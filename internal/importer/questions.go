// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"quizdeck/internal/models"
)

// QuestionResult summarizes a question import.
type QuestionResult struct {
	Rows              int `json:"rows"`
	Imported          int `json:"imported"`
	Skipped           int `json:"skipped"`
	CategoriesCreated int `json:"categories_created"`
}

// ImportQuestionFile reads a question sheet and imports it.
func (im *Importer) ImportQuestionFile(ctx context.Context, filename string, r io.Reader) (*QuestionResult, error) {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return nil, err
	}
	return im.ImportQuestions(ctx, rows)
}

// ImportQuestions validates every row and commits the accepted questions,
// together with any categories their paths need, in one batch. Any
// validation failure rejects the whole upload and nothing is written.
func (im *Importer) ImportQuestions(ctx context.Context, rows []Row) (*QuestionResult, error) {
	var result *QuestionResult
	err := im.guard.Do(func() error {
		var err error
		result, err = im.importQuestions(ctx, rows)
		return err
	})
	return result, err
}

func (im *Importer) importQuestions(ctx context.Context, rows []Row) (*QuestionResult, error) {
	accepted, err := im.validate(ctx, rows)
	if err != nil {
		return nil, err
	}

	batch := im.batcher.Batch()
	stage := func(_ context.Context, c *models.Category) (*models.Category, error) {
		return im.categories.Stage(batch, c)
	}
	res := newResolver(im.categories, stage)

	for _, row := range accepted {
		categoryID, err := res.Resolve(ctx, row.Category)
		if err != nil {
			return nil, &RowError{Row: row.Line, QuestionID: row.QuestionID, Err: err}
		}

		q := &models.Question{
			QuestionID:    row.QuestionID,
			Text:          row.Text,
			CorrectAnswer: NormalizeAnswer(row.Answer),
			Hint:          row.Hint,
			Explanation:   row.Explanation,
			CategoryID:    categoryID,
		}
		if _, err := im.questions.Stage(batch, q); err != nil {
			return nil, &RowError{Row: row.Line, QuestionID: row.QuestionID, Err: err}
		}
	}

	slog.Debug("committing question batch", "ops", batch.Len())
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit questions: %w", err)
	}

	result := &QuestionResult{
		Rows:              len(rows),
		Imported:          len(accepted),
		Skipped:           len(rows) - len(accepted),
		CategoriesCreated: res.Created(),
	}
	slog.Info("questions imported",
		"rows", result.Rows,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"categories_created", result.CategoriesCreated,
	)

	im.reload(ctx)
	return result, nil
}

// validate checks rows in order and stops at the first failure. Rows
// without question text or category are skipped, not rejected.
func (im *Importer) validate(ctx context.Context, rows []Row) ([]Row, error) {
	seen := make(map[string]int, len(rows))
	accepted := make([]Row, 0, len(rows))

	for _, row := range rows {
		row.QuestionID = strings.TrimSpace(row.QuestionID)
		row.Text = strings.TrimSpace(row.Text)
		row.Category = strings.TrimSpace(row.Category)

		if row.Text == "" || row.Category == "" {
			continue
		}
		if row.QuestionID == "" {
			return nil, &RowError{Row: row.Line, Err: ErrMissingQuestionID}
		}
		if _, dup := seen[row.QuestionID]; dup {
			return nil, &RowError{Row: row.Line, QuestionID: row.QuestionID, Err: ErrDuplicateQuestionID}
		}
		seen[row.QuestionID] = row.Line

		exists, err := im.questions.ExistsByQuestionID(ctx, row.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("check question %q: %w", row.QuestionID, err)
		}
		if exists {
			return nil, &RowError{Row: row.Line, QuestionID: row.QuestionID, Err: ErrQuestionExists}
		}

		accepted = append(accepted, row)
	}
	return accepted, nil
}
