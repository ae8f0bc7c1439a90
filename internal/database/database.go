package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/pickup-line-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnsupportedDatabase is returned for DATABASE_URL schemes without a driver.
var ErrUnsupportedDatabase = errors.New("unsupported database url")

// Dialector picks the gorm driver from the scheme of the connection string.
// postgres:// and postgresql:// go to postgres, mysql:// to mysql (the
// remainder is a go-sql-driver DSN) and sqlite:// or file: to sqlite.
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(strings.TrimPrefix(url, "mysql://")), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(url, "sqlite://"))), nil
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(sqliteDSN(url)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, url)
	}
}

// sqliteDSN enables foreign key enforcement, which SQLite leaves off per
// connection by default.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// Connect opens the database described by url.
func Connect(url string, debug bool, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(url)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(debug, log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established", zap.String("dialect", dialector.Name()))
	return db, nil
}

// newGormLogger routes gorm's query log through zap. Record-not-found
// errors are not logged.
func newGormLogger(debug bool, log *zap.Logger) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")
	err := db.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.HistoryEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return err
	}

	log.Info("Database migrations completed")
	return nil
}
