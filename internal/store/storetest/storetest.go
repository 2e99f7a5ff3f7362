// Package storetest provides item stores backed by throwaway databases for
// tests in other packages.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"lostfound/internal/db"
	"lostfound/internal/store"
)

// NewGormStore creates a gorm store on a fresh sqlite file in t.TempDir().
func NewGormStore(t testing.TB) *store.GormStore {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "items.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	s, err := store.NewGormStore(gdb)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}
