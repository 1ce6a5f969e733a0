// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CategoryResult summarizes a category import.
type CategoryResult struct {
	Paths   int `json:"paths"`
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

// ImportCategories replaces the category tree with the paths read from r.
//
// Every path must have at least one segment; otherwise nothing is touched.
// Every existing category is then deleted, in one batch, before anything
// is written. New categories are created one by one; if a write fails the
// categories created so far stay and the tree is partial. The reloader
// runs whenever the delete went through.
func (im *Importer) ImportCategories(ctx context.Context, r io.Reader) (*CategoryResult, error) {
	var result *CategoryResult
	err := im.guard.Do(func() error {
		var err error
		result, err = im.importCategories(ctx, r)
		return err
	})
	return result, err
}

func (im *Importer) importCategories(ctx context.Context, r io.Reader) (*CategoryResult, error) {
	paths, err := ParsePaths(r)
	if err != nil {
		return nil, err
	}
	for i, path := range paths {
		if len(SplitPath(path)) == 0 {
			return nil, fmt.Errorf("category path %d %q: %w: no segments", i+1, path, ErrMalformedInput)
		}
	}

	deleted, err := im.categories.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear categories: %w", err)
	}

	// From here on the stored tree has changed, so the reload runs even
	// when a later path fails.
	defer im.reload(ctx)

	res := newResolver(im.categories, im.categories.Create)
	for _, path := range paths {
		if _, err := res.Resolve(ctx, path); err != nil {
			slog.Error("category import aborted", "path", path, "created", res.Created(), "error", err)
			return nil, err
		}
	}

	result := &CategoryResult{Paths: len(paths), Created: res.Created(), Deleted: deleted}
	slog.Info("categories imported", "paths", result.Paths, "created", result.Created, "deleted", result.Deleted)
	return result, nil
}
