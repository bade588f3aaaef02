package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/julioamancio/capone-orders/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&store.KVEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}
