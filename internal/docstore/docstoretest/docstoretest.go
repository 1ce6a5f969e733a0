// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docstoretest is a behavioural test suite shared by every
// docstore backend.
package docstoretest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdeck/internal/docstore"
)

// Run exercises a backend. newStore must return a ready store; each
// subtest works in its own freshly named collections.
func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		doc, err := s.Get(ctx, collection("get"), "nope")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("AddGet", func(t *testing.T) {
		s := newStore(t)
		coll := collection("add")

		id, err := s.Add(ctx, coll, docstore.Fields{"name": "Math", "order": 2, "parent": nil})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		doc, err := s.Get(ctx, coll, id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "Math", doc.Fields["name"])
		assert.Equal(t, float64(2), doc.Fields["order"])
		v, ok := doc.Fields["parent"]
		assert.True(t, ok, "null field should be stored")
		assert.Nil(t, v)
	})

	t.Run("FindEquality", func(t *testing.T) {
		s := newStore(t)
		coll := collection("find")

		rootID, err := s.Add(ctx, coll, docstore.Fields{"name": "A", "parent": nil})
		require.NoError(t, err)
		_, err = s.Add(ctx, coll, docstore.Fields{"name": "B", "parent": rootID})
		require.NoError(t, err)
		_, err = s.Add(ctx, coll, docstore.Fields{"name": "A", "parent": rootID})
		require.NoError(t, err)
		_, err = s.Add(ctx, coll, docstore.Fields{"name": "A"})
		require.NoError(t, err)

		all, err := s.Find(ctx, coll)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		roots, err := s.Find(ctx, coll, docstore.Eq("name", "A"), docstore.Eq("parent", nil))
		require.NoError(t, err)
		require.Len(t, roots, 1, "nil filter must match explicit null only")
		assert.Equal(t, rootID, roots[0].ID)

		children, err := s.Find(ctx, coll, docstore.Eq("parent", rootID))
		require.NoError(t, err)
		assert.Len(t, children, 2)

		none, err := s.Find(ctx, coll, docstore.Eq("name", "Z"))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("FindNumberAndBool", func(t *testing.T) {
		s := newStore(t)
		coll := collection("types")

		_, err := s.Add(ctx, coll, docstore.Fields{"order": 3, "ok": true})
		require.NoError(t, err)

		got, err := s.Find(ctx, coll, docstore.Eq("order", 3), docstore.Eq("ok", true))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("UpdateMerges", func(t *testing.T) {
		s := newStore(t)
		coll := collection("update")

		id, err := s.Add(ctx, coll, docstore.Fields{"text": "q", "memo": ""})
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, coll, id, docstore.Fields{"memo": "note"}))

		doc, err := s.Get(ctx, coll, id)
		require.NoError(t, err)
		assert.Equal(t, "q", doc.Fields["text"])
		assert.Equal(t, "note", doc.Fields["memo"])
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(ctx, collection("update"), "missing", docstore.Fields{"memo": "x"})
		assert.True(t, errors.Is(err, docstore.ErrNotFound), "got %v", err)
	})

	t.Run("BatchCommit", func(t *testing.T) {
		s := newStore(t)
		coll := collection("batch")

		keep, err := s.Add(ctx, coll, docstore.Fields{"n": 1})
		require.NoError(t, err)
		drop, err := s.Add(ctx, coll, docstore.Fields{"n": 2})
		require.NoError(t, err)

		b := s.Batch()
		newID := docstore.NewID()
		b.Set(coll, newID, docstore.Fields{"n": 3})
		b.Set(coll, keep, docstore.Fields{"n": 10})
		b.Delete(coll, drop)
		b.Delete(coll, "never-existed")
		assert.Equal(t, 4, b.Len())

		// Nothing is visible before commit.
		doc, err := s.Get(ctx, coll, newID)
		require.NoError(t, err)
		assert.Nil(t, doc)

		require.NoError(t, b.Commit(ctx))

		doc, err = s.Get(ctx, coll, newID)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, float64(3), doc.Fields["n"])

		doc, err = s.Get(ctx, coll, keep)
		require.NoError(t, err)
		assert.Equal(t, float64(10), doc.Fields["n"])

		doc, err = s.Get(ctx, coll, drop)
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("BatchReuse", func(t *testing.T) {
		s := newStore(t)
		b := s.Batch()
		b.Set(collection("reuse"), docstore.NewID(), docstore.Fields{"n": 1})
		require.NoError(t, b.Commit(ctx))
		assert.ErrorIs(t, b.Commit(ctx), docstore.ErrBatchClosed)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Batch().Commit(ctx))
	})
}

func collection(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}
