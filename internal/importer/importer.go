// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer loads category paths and question sheets into the
// document store. Category imports replace the whole category tree;
// question imports are validated up front and committed in one batch.
package importer

import (
	"context"
	"log/slog"

	"quizdeck/internal/docstore"
	"quizdeck/internal/models"
)

// CategoryRepository is the category storage the importers need.
type CategoryRepository interface {
	FindByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Category, error)
	NextSortOrder(ctx context.Context, parentID *string) (int, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Stage(b *docstore.Batch, c *models.Category) (*models.Category, error)
	DeleteAll(ctx context.Context) (int, error)
}

// QuestionRepository is the question storage the importers need.
type QuestionRepository interface {
	ExistsByQuestionID(ctx context.Context, key string) (bool, error)
	Stage(b *docstore.Batch, q *models.Question) (*models.Question, error)
}

// Batcher starts write batches.
type Batcher interface {
	Batch() *docstore.Batch
}

// Reloader refreshes whatever presents the category tree after an import.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context) error

// Reload calls f.
func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// Importer runs category and question imports, one at a time.
type Importer struct {
	batcher    Batcher
	categories CategoryRepository
	questions  QuestionRepository
	reloader   Reloader
	guard      Guard
}

// New creates an Importer. reloader may be nil.
func New(batcher Batcher, categories CategoryRepository, questions QuestionRepository, reloader Reloader) *Importer {
	return &Importer{
		batcher:    batcher,
		categories: categories,
		questions:  questions,
		reloader:   reloader,
	}
}

// reload triggers the tree reload. The store has already changed, so a
// failure is logged and not returned.
func (im *Importer) reload(ctx context.Context) {
	if im.reloader == nil {
		return
	}
	if err := im.reloader.Reload(ctx); err != nil {
		slog.Warn("tree reload after import failed", "error", err)
	}
}
