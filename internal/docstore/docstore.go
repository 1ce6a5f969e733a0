// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docstore defines the document store client used by quizdeck.
// A store holds named collections of schemaless documents, answers
// equality queries, and applies staged batches of writes atomically.
// Backends live in the memory, postgres and mongo subpackages.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Update when the target document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrBatchClosed is returned when a batch is committed twice.
	ErrBatchClosed = errors.New("batch already committed")
)

// Fields is the top-level field map of a document.
type Fields map[string]any

// Document is a stored document and its store-assigned ID.
type Document struct {
	ID     string
	Fields Fields
}

// Filter is an equality predicate on a top-level field. A nil Value
// matches documents where the field is explicitly null.
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Store is the contract every backend implements.
type Store interface {
	// Get returns the document with the given ID, or nil if it does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Find returns the documents matching every filter. No filters lists
	// the whole collection.
	Find(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// Add inserts a new document and returns its generated ID.
	Add(ctx context.Context, collection string, fields Fields) (string, error)

	// Update merges the given top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Batch starts a new write batch.
	Batch() *Batch

	Close() error
}

// NewID generates a document ID. IDs are assigned client-side so that
// documents staged in a batch can be referenced before the commit.
func NewID() string {
	return uuid.NewString()
}

// Encode converts a tagged struct into document fields using its JSON tags.
func Encode(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return fields, nil
}

// Decode fills v from document fields using its JSON tags.
func Decode(fields Fields, v any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Normalize round-trips fields through JSON so that every backend sees
// the same value types (float64 numbers, map[string]any objects).
func Normalize(fields Fields) (Fields, error) {
	if fields == nil {
		return Fields{}, nil
	}
	out := Fields{}
	if err := Decode(fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}
