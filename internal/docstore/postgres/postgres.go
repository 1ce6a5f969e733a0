// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package postgres stores documents as JSONB rows in a single documents
// table. Equality filters become a containment test on the data column.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"quizdeck/internal/docstore"
)

// Store is a document store backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ docstore.Store = (*Store)(nil)

// Get returns a document by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	fields, err := decodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &docstore.Document{ID: id, Fields: fields}, nil
}

// Find returns documents whose data contains every filter field, ordered by ID.
func (s *Store) Find(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	filter, err := json.Marshal(docstore.FilterFields(filters))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = $1 AND data @> $2::jsonb
		 ORDER BY id`,
		collection, string(filter),
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		fields, err := decodeData(raw)
		if err != nil {
			return nil, fmt.Errorf("scan %s/%s: %w", collection, id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

// Add inserts a document under a new ID.
func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	raw, err := encodeData(fields)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}

	id := docstore.NewID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, raw,
	)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return id, nil
}

// Update merges top-level fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	raw, err := encodeData(fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

// Batch starts a write batch committed in one SQL transaction.
func (s *Store) Batch() *docstore.Batch {
	return docstore.NewBatch(s.commit)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) commit(ctx context.Context, ops []docstore.Op) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.Kind {
		case docstore.OpSet:
			raw, err := encodeData(op.Fields)
			if err != nil {
				return fmt.Errorf("batch set %s/%s: %w", op.Collection, op.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
				 ON CONFLICT (collection, id)
				 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
				op.Collection, op.ID, raw,
			)
			if err != nil {
				return fmt.Errorf("batch set %s/%s: %w", op.Collection, op.ID, err)
			}
		case docstore.OpDelete:
			_, err := tx.ExecContext(ctx,
				`DELETE FROM documents WHERE collection = $1 AND id = $2`,
				op.Collection, op.ID,
			)
			if err != nil {
				return fmt.Errorf("batch delete %s/%s: %w", op.Collection, op.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func encodeData(fields docstore.Fields) (string, error) {
	if fields == nil {
		fields = docstore.Fields{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeData(raw []byte) (docstore.Fields, error) {
	fields := docstore.Fields{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
