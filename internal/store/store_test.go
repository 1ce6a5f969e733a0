// store_test.go provides shared helpers for the repository tests. Unit
// tests run against the in-memory document store; the Postgres variant
// is skipped when the database is not available.
package store

import (
	"os"
	"testing"

	"quizdeck/internal/database"
	"quizdeck/internal/docstore"
	"quizdeck/internal/docstore/memory"
	"quizdeck/internal/docstore/postgres"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "quizdeck")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "quizdeck")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDocstore(t *testing.T) docstore.Store {
	t.Helper()
	return memory.New()
}

// testPostgres opens the integration database and clears the collections
// these tests touch. Skips if PostgreSQL is not reachable.
func testPostgres(t *testing.T) docstore.Store {
	t.Helper()

	db, err := database.Connect(testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	clean := func() {
		db.Exec(`DELETE FROM documents WHERE collection IN ($1, $2)`, CategoriesCollection, QuestionsCollection)
	}
	clean()
	t.Cleanup(func() {
		clean()
		db.Close()
	})
	return postgres.New(db)
}
