// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package docstore

import (
	"context"
	"sync"
)

// OpKind is the kind of a staged batch operation.
type OpKind int

const (
	// OpSet creates or fully replaces a document.
	OpSet OpKind = iota
	// OpDelete removes a document. Deleting a missing document is not an error.
	OpDelete
)

// Op is a single staged write.
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Fields     Fields
}

// CommitFunc applies a list of operations atomically.
type CommitFunc func(ctx context.Context, ops []Op) error

// Batch stages writes in memory until Commit. Nothing reaches the
// backend before Commit, and a failed commit applies nothing.
type Batch struct {
	mu     sync.Mutex
	ops    []Op
	commit CommitFunc
	closed bool
}

// NewBatch returns a batch whose Commit delegates to fn. Backends call it
// from their Batch method.
func NewBatch(fn CommitFunc) *Batch {
	return &Batch{commit: fn}
}

// Set stages a create-or-replace of the document with the given ID.
func (b *Batch) Set(collection, id string, fields Fields) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, Op{Kind: OpSet, Collection: collection, ID: id, Fields: fields})
}

// Delete stages a removal of the document with the given ID.
func (b *Batch) Delete(collection, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, Op{Kind: OpDelete, Collection: collection, ID: id})
}

// Len returns the number of staged operations.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops)
}

// Commit applies every staged operation in one atomic unit. An empty
// batch commits trivially. The batch cannot be reused afterwards.
func (b *Batch) Commit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBatchClosed
	}
	b.closed = true

	if len(b.ops) == 0 {
		return nil
	}
	return b.commit(ctx, b.ops)
}
