// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"context"
	"fmt"

	"quizdeck/internal/models"
)

// createFunc persists a new category, either immediately or by staging
// it into a batch, and returns it with its ID.
type createFunc func(ctx context.Context, c *models.Category) (*models.Category, error)

type cacheKey struct {
	name   string
	parent string
	root   bool
}

func keyFor(name string, parentID *string) cacheKey {
	if parentID == nil {
		return cacheKey{name: name, root: true}
	}
	return cacheKey{name: name, parent: *parentID}
}

// Resolver turns category paths into leaf category IDs, reusing existing
// categories and creating missing ones. A Resolver lives for one import
// run: its name cache and sibling order counters are not shared across runs.
type Resolver struct {
	repo   CategoryRepository
	create createFunc

	cache map[cacheKey]string
	next  map[cacheKey]int

	created int
}

func newResolver(repo CategoryRepository, create createFunc) *Resolver {
	return &Resolver{
		repo:   repo,
		create: create,
		cache:  make(map[cacheKey]string),
		next:   make(map[cacheKey]int),
	}
}

// Created returns how many categories this resolver created.
func (r *Resolver) Created() int {
	return r.created
}

// Resolve walks the path from the root and returns the leaf category ID.
// Store errors abort the walk; categories created before the error stay.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return "", fmt.Errorf("category path %q: %w: no segments", path, ErrMalformedInput)
	}

	var parentID *string
	for depth, name := range segments {
		id, err := r.resolveSegment(ctx, name, parentID, depth)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", path, err)
		}
		parentID = &id
	}
	return *parentID, nil
}

func (r *Resolver) resolveSegment(ctx context.Context, name string, parentID *string, depth int) (string, error) {
	key := keyFor(name, parentID)
	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	existing, err := r.repo.FindByNameAndParent(ctx, name, parentID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		r.cache[key] = existing.ID
		return existing.ID, nil
	}

	order, err := r.nextOrder(ctx, parentID)
	if err != nil {
		return "", err
	}

	created, err := r.create(ctx, &models.Category{
		Name:     name,
		Order:    order,
		Depth:    depth,
		ParentID: parentID,
	})
	if err != nil {
		return "", err
	}

	r.created++
	r.cache[key] = created.ID
	return created.ID, nil
}

// nextOrder hands out sibling order values. The first call for a parent
// seeds the counter from the store, later calls count up in memory so
// that creations the store cannot see yet still get distinct values.
func (r *Resolver) nextOrder(ctx context.Context, parentID *string) (int, error) {
	key := keyFor("", parentID)
	n, ok := r.next[key]
	if !ok {
		seed, err := r.repo.NextSortOrder(ctx, parentID)
		if err != nil {
			return 0, err
		}
		n = seed
	}
	r.next[key] = n + 1
	return n, nil
}
