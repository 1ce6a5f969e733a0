// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mongo maps each docstore collection onto a MongoDB collection
// with string _id values. Batches run in a multi-document transaction,
// which requires a replica set or sharded cluster.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizdeck/internal/docstore"
)

// Store is a document store backed by MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials the server at uri, verifies it with a ping and uses the
// named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongo connected", "database", database)
	return &Store{client: client, db: client.Database(database)}, nil
}

var _ docstore.Store = (*Store)(nil)

// Get returns a document by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var m bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc, err := toDocument(m)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Find returns documents matching every filter, ordered by ID.
func (s *Store) Find(ctx context.Context, collection string, filters ...docstore.Filter) ([]docstore.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, filterDoc(filters),
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	var results []bson.M
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	docs := make([]docstore.Document, 0, len(results))
	for _, m := range results {
		doc, err := toDocument(m)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", collection, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Add inserts a document under a new ID.
func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := docstore.NewID()
	body, err := toBSON(id, fields)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, body); err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return id, nil
}

// Update merges top-level fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	norm, err := docstore.Normalize(fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if len(norm) == 0 {
		return nil
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M(norm)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

// Batch starts a write batch committed in one transaction.
func (s *Store) Batch() *docstore.Batch {
	return docstore.NewBatch(s.commit)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes a collection. Used by tests to start clean.
func (s *Store) Drop(ctx context.Context, collection string) error {
	return s.db.Collection(collection).Drop(ctx)
}

func (s *Store) commit(ctx context.Context, ops []docstore.Op) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			coll := s.db.Collection(op.Collection)
			switch op.Kind {
			case docstore.OpSet:
				body, err := toBSON(op.ID, op.Fields)
				if err != nil {
					return nil, fmt.Errorf("batch set %s/%s: %w", op.Collection, op.ID, err)
				}
				_, err = coll.ReplaceOne(sc, bson.M{"_id": op.ID}, body, options.Replace().SetUpsert(true))
				if err != nil {
					return nil, fmt.Errorf("batch set %s/%s: %w", op.Collection, op.ID, err)
				}
			case docstore.OpDelete:
				if _, err := coll.DeleteOne(sc, bson.M{"_id": op.ID}); err != nil {
					return nil, fmt.Errorf("batch delete %s/%s: %w", op.Collection, op.ID, err)
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// filterDoc builds the query. A nil value only matches an explicit null,
// not a missing field, which Mongo's plain {field: null} would also match.
func filterDoc(filters []docstore.Filter) bson.M {
	q := bson.M{}
	for field, v := range docstore.FilterFields(filters) {
		if v == nil {
			q[field] = bson.M{"$type": "null"}
			continue
		}
		q[field] = v
	}
	return q
}

func toBSON(id string, fields docstore.Fields) (bson.M, error) {
	norm, err := docstore.Normalize(fields)
	if err != nil {
		return nil, err
	}
	body := bson.M(norm)
	delete(body, "_id")
	body["_id"] = id
	return body, nil
}

func toDocument(m bson.M) (*docstore.Document, error) {
	id, _ := m["_id"].(string)
	delete(m, "_id")

	// Round trip through JSON so numbers decode as float64 like every other backend.
	fields, err := docstore.Normalize(docstore.Fields(m))
	if err != nil {
		return nil, err
	}
	return &docstore.Document{ID: id, Fields: fields}, nil
}
