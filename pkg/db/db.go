package db

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

const sqlitePrefix = "sqlite://"

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Cipher is optional; when set, encrypted columns are sealed with it
	Cipher cipher.Cipher
	// LogLevel "debug" or "trace" turns on SQL statement logging
	LogLevel string
}

// Connect establishes a database connection. postgres:// URLs use the
// postgres driver and sqlite:// URLs open a local SQLite file.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	logMode := logger.Silent
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		logMode = logger.Info
	}
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logMode)}

	var (
		db  *gorm.DB
		err error
	)
	if IsSQLite(dbURL) {
		db, err = openSQLite(strings.TrimPrefix(dbURL, sqlitePrefix), gormConfig)
	} else {
		db, err = gorm.Open(
			postgres.New(postgres.Config{
				DSN:                  dbURL,
				PreferSimpleProtocol: true, // disables implicit prepared statement usage
			}),
			gormConfig,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Cipher != nil {
		db = db.WithContext(cipher.WithContext(context.Background(), cfg.Cipher))
	}

	return db, nil
}

func openSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, err
	}
	// Each connection to an in-memory database would see its own empty schema.
	if strings.HasPrefix(path, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// IsSQLite reports whether dbURL selects the SQLite backend.
func IsSQLite(dbURL string) bool {
	return strings.HasPrefix(dbURL, sqlitePrefix)
}

// AutoMigrate creates or updates every table from the models. SQLite
// databases use this instead of the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
