package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yigit/studentrecords/internal/config"
)

// Database is the connection handle the server keeps for health checks and shutdown.
type Database interface {
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteDB wraps a GORM handle over a pure-Go SQLite database.
type SQLiteDB struct {
	Gorm *gorm.DB
}

// NewSQLiteDB opens (creating if needed) the sqlite database configured in cfg.
func NewSQLiteDB(cfg *config.Config, lgr zerolog.Logger) (*SQLiteDB, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return OpenSQLite(cfg.GetSQLiteDSN(), lgr)
}

// OpenSQLite opens a sqlite database from a full DSN.
func OpenSQLite(dsn string, lgr zerolog.Logger) (*SQLiteDB, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(lgr),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite connection pool: %w", err)
	}
	// SQLite serialises writers; transactions rely on a single connection.
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteDB{Gorm: gormDB}, nil
}

// Ping checks the database is reachable.
func (db *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (db *SQLiteDB) Close() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
