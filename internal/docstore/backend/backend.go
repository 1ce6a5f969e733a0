// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend opens the document store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/docstore"
	"quizdeck/internal/docstore/memory"
	"quizdeck/internal/docstore/mongo"
	"quizdeck/internal/docstore/postgres"
)

// Open connects to the configured backend. The postgres backend also runs
// pending migrations. The caller closes the returned store.
func Open(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.DocstoreBackend {
	case "postgres":
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("document store ready", "backend", "postgres", "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.New(db), nil

	case "mongo":
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		slog.Info("document store ready", "backend", "mongo", "db", cfg.MongoDatabase)
		return s, nil

	case "memory":
		slog.Warn("document store is in memory; data is lost on exit")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown document store backend %q", cfg.DocstoreBackend)
}
