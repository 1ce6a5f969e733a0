// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"quizdeck/internal/models"
)

const (
	// TreeKey is the Valkey key holding the serialized category tree.
	TreeKey = "tree:categories"

	// DefaultTreeTTL bounds how stale the cached tree can get if a writer
	// outside this process changes the categories.
	DefaultTreeTTL = time.Hour
)

// TreeSource builds the category tree from the document store.
type TreeSource interface {
	Tree(ctx context.Context) (*models.CategoryNode, error)
}

// TreeCache keeps the built category tree in Valkey. Cache failures are
// logged and reads fall through to the source, so a nil client simply
// disables caching.
type TreeCache struct {
	client *redis.Client
	source TreeSource
	ttl    time.Duration
}

// NewTreeCache creates a tree cache over source. client may be nil.
func NewTreeCache(client *redis.Client, source TreeSource, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, source: source, ttl: ttl}
}

// Tree returns the cached tree, building and caching it on a miss.
func (tc *TreeCache) Tree(ctx context.Context) (*models.CategoryNode, error) {
	if tc.client != nil {
		raw, err := tc.client.Get(ctx, TreeKey).Bytes()
		switch {
		case err == nil:
			var tree models.CategoryNode
			if err := json.Unmarshal(raw, &tree); err == nil {
				slog.Debug("tree cache hit")
				return &tree, nil
			}
			slog.Warn("tree cache corrupt entry", "error", err)
		case !errors.Is(err, redis.Nil):
			slog.Warn("tree cache get error", "error", err)
		}
	}

	tree, err := tc.source.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	tc.store(ctx, tree)
	return tree, nil
}

// Reload rebuilds the tree from the source and replaces the cached copy.
// It is the reload callback the importers trigger once they have written.
// If the source fails the cached copy is dropped, so later reads go to
// the store instead of serving a tree that no longer matches it.
func (tc *TreeCache) Reload(ctx context.Context) error {
	tree, err := tc.source.Tree(ctx)
	if err != nil {
		if ierr := tc.Invalidate(ctx); ierr != nil {
			slog.Warn("tree cache drop after failed reload", "error", ierr)
		}
		return fmt.Errorf("reload tree: %w", err)
	}
	tc.store(ctx, tree)
	slog.Info("category tree reloaded", "roots", len(tree.Children))
	return nil
}

// Invalidate drops the cached tree.
func (tc *TreeCache) Invalidate(ctx context.Context) error {
	if tc.client == nil {
		return nil
	}
	if err := tc.client.Del(ctx, TreeKey).Err(); err != nil {
		return fmt.Errorf("invalidate tree: %w", err)
	}
	return nil
}

func (tc *TreeCache) store(ctx context.Context, tree *models.CategoryNode) {
	if tc.client == nil {
		return
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache marshal error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, TreeKey, raw, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}
