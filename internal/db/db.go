package db

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager owns the connection pool. It is created once in main, passed to
// the repositories that need it and closed on shutdown.
type Manager struct {
	db     *gorm.DB
	driver string
}

// Option customizes the gorm configuration used by Open.
type Option func(*gorm.Config)

const slowQueryThreshold = 200 * time.Millisecond

// WithLogLevel sets the gorm SQL logger level.
func WithLogLevel(level logger.LogLevel) Option {
	return WithLogger(os.Stdout, level)
}

// WithLogger sends gorm SQL logs at level and above to w.
func WithLogger(w io.Writer, level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = newLogger(w, level)
	}
}

// newLogger never reports ErrRecordNotFound: lookups that find nothing are
// how uniqueness and slug checks work.
func newLogger(w io.Writer, level logger.LogLevel) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to the database identified by driver and dsn. Supported
// drivers are mysql, postgres and sqlite.
func Open(driver, dsn string, opts ...Option) (*Manager, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	cfg := &gorm.Config{
		Logger:         newLogger(os.Stdout, logger.Warn),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return &Manager{db: gdb, driver: driver}, nil
}

// DB returns the pool handle.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Driver returns the driver name the manager was opened with.
func (m *Manager) Driver() string {
	return m.driver
}

// Migrate creates or updates the tables for models.
func (m *Manager) Migrate(models ...any) error {
	if err := m.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops the tables for models in reverse order so dependents go first.
// Missing tables are logged and skipped.
func (m *Manager) Reset(models ...any) {
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			slog.Warn("failed to drop table (may not exist)", slog.Any("error", err))
		}
	}
}

// Ping checks that the database answers.
func (m *Manager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
