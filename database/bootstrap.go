// database/bootstrap.go
package database

import (
	"fmt"
	"sync/atomic"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eaadss/entities"
)

var memSeq atomic.Int64

// OpenSQLite opens (or creates) the database at path and migrates every
// entity. Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if path == ":memory:" {
		// named so every pooled connection sees the same db, unique per call
		dsn = fmt.Sprintf("file:eaa_mem_%d?mode=memory&cache=shared", memSeq.Add(1))
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Exec(`PRAGMA foreign_keys=ON`).Error; err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}

	if err := db.AutoMigrate(
		&entities.Field{},
		&entities.Assessment{},
		&entities.SoilTest{},
		&entities.PracticeItem{},
		&entities.KBDocument{},
		&entities.KBChunk{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}
