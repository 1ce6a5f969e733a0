// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory is a process-local document store backend, used by
// tests and the testing environment.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"quizdeck/internal/docstore"
)

// Store keeps every collection in memory. Documents are normalized on
// write and copied on read, so callers never share maps with the store.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]docstore.Fields
	// failCommit, when set, makes the next batch commit fail without applying anything.
	failCommit error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]map[string]docstore.Fields)}
}

var _ docstore.Store = (*Store)(nil)

// Get returns a document by ID, or nil if it does not exist.
func (s *Store) Get(_ context.Context, collection, id string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[collection][id]
	if !ok {
		return nil, nil
	}
	return &docstore.Document{ID: id, Fields: copyFields(fields)}, nil
}

// Find returns matching documents ordered by ID.
func (s *Store) Find(_ context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []docstore.Document
	for id, fields := range s.data[collection] {
		if docstore.Matches(fields, filters) {
			docs = append(docs, docstore.Document{ID: id, Fields: copyFields(fields)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Add inserts a document under a new ID.
func (s *Store) Add(_ context.Context, collection string, fields docstore.Fields) (string, error) {
	norm, err := docstore.Normalize(fields)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := docstore.NewID()
	s.collection(collection)[id] = norm
	return id, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(_ context.Context, collection, id string, fields docstore.Fields) error {
	norm, err := docstore.Normalize(fields)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	for k, v := range norm {
		existing[k] = v
	}
	return nil
}

// Batch starts a write batch applied under the store lock.
func (s *Store) Batch() *docstore.Batch {
	return docstore.NewBatch(s.commit)
}

// FailNextCommit makes the next batch commit return err and apply nothing.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// Count returns the number of documents in a collection.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) commit(_ context.Context, ops []docstore.Op) error {
	// Normalize everything before touching the data so a bad op applies nothing.
	norms := make([]docstore.Fields, len(ops))
	for i, op := range ops {
		if op.Kind != docstore.OpSet {
			continue
		}
		norm, err := docstore.Normalize(op.Fields)
		if err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		norms[i] = norm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failCommit; err != nil {
		s.failCommit = nil
		return fmt.Errorf("commit batch: %w", err)
	}

	for i, op := range ops {
		switch op.Kind {
		case docstore.OpSet:
			s.collection(op.Collection)[op.ID] = norms[i]
		case docstore.OpDelete:
			delete(s.data[op.Collection], op.ID)
		}
	}
	return nil
}

func (s *Store) collection(name string) map[string]docstore.Fields {
	c, ok := s.data[name]
	if !ok {
		c = make(map[string]docstore.Fields)
		s.data[name] = c
	}
	return c
}

func copyFields(f docstore.Fields) docstore.Fields {
	out := make(docstore.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
