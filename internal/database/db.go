// internal/database/db.go
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"discord-community-bot/internal/models"
)

type DB struct {
	*gorm.DB
}

// New opens the bot database and migrates the schema. A postgres:// (or
// postgresql://) DATABASE_URL selects Postgres; otherwise an embedded SQLite
// database file is created under dataDir.
func New(databaseURL, dataDir string) (*DB, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dialector = sqlite.Open(filepath.Join(dataDir, "bot.db"))
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// Better behavior for concurrent reads
		if err := gormDB.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	// Auto migrate
	if err := gormDB.AutoMigrate(
		&models.UserLevel{},
		&models.Birthday{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &DB{gormDB}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
