package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdeck/internal/docstore"
	"quizdeck/internal/docstore/docstoretest"
)

func TestContract(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store { return New() })
}

func TestFailedCommitAppliesNothing(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Add(ctx, "questions", docstore.Fields{"question_id": "Q1"})
	require.NoError(t, err)

	b := s.Batch()
	b.Set("questions", docstore.NewID(), docstore.Fields{"question_id": "Q2"})
	b.Delete("questions", id)

	s.FailNextCommit(errors.New("boom"))
	require.Error(t, b.Commit(ctx))

	assert.Equal(t, 1, s.Count("questions"))
	doc, err := s.Get(ctx, "questions", id)
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Add(ctx, "c", docstore.Fields{"name": "a"})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "c", id)
	require.NoError(t, err)
	doc.Fields["name"] = "mutated"

	doc, err = s.Get(ctx, "c", id)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Fields["name"])
}
