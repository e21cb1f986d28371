// Package db opens and migrates the ArchitectFlow database. The same GORM
// handle serves both backends; callers never see backend-specific SQL.
package db

import (
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/zulandar/architectflow/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned when the hosted backend is selected but no
// database URL is configured. The HTTP boundary maps it to 503.
var ErrNotConfigured = errors.New("db: hosted backend selected but no database URL is configured")

// Open connects to the backend selected by cfg: hosted MySQL when a
// database URL is configured, the embedded SQLite file otherwise. The
// returned handle is created once per process and reused for its lifetime.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Hosted() {
		if cfg.Database.URL == "" {
			return nil, ErrNotConfigured
		}
		return OpenHosted(cfg.Database.URL)
	}
	return OpenEmbedded(cfg.Database.Path)
}

// OpenHosted opens a GORM connection to a hosted MySQL database. The URL is
// a go-sql-driver DSN; parseTime and a connection timeout are enforced
// regardless of what the DSN says.
func OpenHosted(url string) (*gorm.DB, error) {
	dsnCfg, err := gomysql.ParseDSN(url)
	if err != nil {
		return nil, fmt.Errorf("db: parse database URL: %w", err)
	}
	dsnCfg.ParseTime = true
	if dsnCfg.Timeout == 0 {
		dsnCfg.Timeout = 5 * time.Second
	}

	gdb, err := gorm.Open(mysql.Open(dsnCfg.FormatDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s/%s: %w", dsnCfg.Addr, dsnCfg.DBName, err)
	}
	if err := tunePool(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// OpenEmbedded opens the single-file SQLite database at path, creating it
// if it does not exist.
func OpenEmbedded(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	return gdb, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// tunePool applies the connection-pool limits for the hosted backend.
func tunePool(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("db: access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(30 * time.Second)
	return nil
}
