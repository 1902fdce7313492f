// Package dbtest wires an isolated sqlite database into db.DB so service
// and handler tests run without postgres.
package dbtest

import (
	"path/filepath"
	"testing"
	"toolrank/internal/db"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup points db.DB at a fresh file-backed sqlite database and restores
// the previous handle when the test finishes.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	prev := db.DB
	db.DB = database
	t.Cleanup(func() {
		// Leave the handle in place when there was none before: stray
		// background work (score refresh, click counts) then hits a
		// closed database and logs an error instead of dereferencing nil.
		if prev != nil {
			db.DB = prev
		}
	})

	return database
}
