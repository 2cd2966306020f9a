// Package testutil provides test utilities with proper test isolation.
package testutil

import (
	"context"
	"testing"

	"github.com/vmachacek/ledgermind/internal/service"
	"github.com/vmachacek/ledgermind/internal/storage"
)

// TestDB represents an in-memory test database.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory SQLite database seeded with the
// given category names. Cleanup is registered automatically.
func SetupTestDB(t *testing.T, categories ...string) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, name := range categories {
		if _, err := store.CreateCategory(ctx, name, ""); err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}
