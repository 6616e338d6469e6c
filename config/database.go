package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"movie-catalog/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the configured database and migrates the schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dsn string
	switch cfg.DBDriver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o750); err != nil {
			return nil, err
		}
		dsn = cfg.SQLitePath + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	default:
		dsn = cfg.PostgresDSN()
	}

	db, err := OpenDatabase(cfg.DBDriver, dsn, cfg.LogLevel == "debug")
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenDatabase connects with the settings every store in this service
// relies on: UTC timestamps and driver errors translated to gorm's
// sentinel errors (ErrDuplicatedKey in particular).
func OpenDatabase(driver, dsn string, debug bool) (*gorm.DB, error) {
	gormLogger := gormlogger.Discard
	if debug {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	c := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, c)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// a single connection keeps PRAGMAs and in-memory databases consistent
		sqlDB.SetMaxOpenConns(1)
		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	for _, model := range []any{
		&models.User{},
		&models.Genre{},
		&models.Movie{},
		&models.Review{},
	} {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrating %T: %w", model, err)
		}
	}
	return nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
