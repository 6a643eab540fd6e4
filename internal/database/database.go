// Package database opens the GORM connection and owns the schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wiseadvice/internal/config"
	"wiseadvice/internal/middleware"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slogGormLogger adapts GORM's logger interface to slog. Record-not-found
// is never logged; unique violations drop to warn because duplicate
// reactions and registrations are ordinary client errors.
type slogGormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger logs failed statements and queries slower than slow.
func NewGormLogger(l *slog.Logger, slow time.Duration) logger.Interface {
	return &slogGormLogger{log: l, level: logger.Warn, slow: slow}
}

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func slogLevel(at logger.LogLevel) slog.Level {
	switch at {
	case logger.Error:
		return slog.LevelError
	case logger.Warn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func (l *slogGormLogger) printf(ctx context.Context, at logger.LogLevel, msg string, data []any) {
	if l.level >= at {
		l.log.Log(ctx, slogLevel(at), fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Info, msg, data)
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Warn, msg, data)
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Error, msg, data)
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		at  logger.LogLevel
		msg string
	)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return
	case err != nil && IsUniqueViolation(err):
		at, msg = logger.Warn, "gorm unique violation"
	case err != nil:
		at, msg = logger.Error, "gorm query failed"
	case l.slow > 0 && elapsed > l.slow:
		at, msg = logger.Warn, "gorm slow query"
	default:
		at, msg = logger.Info, "gorm query"
	}
	if l.level < at {
		return
	}

	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.Log(ctx, slogLevel(at), msg, attrs...)
}

// Dialector picks the GORM driver for cfg.DBDriver.
func Dialector(cfg *config.Config) gorm.Dialector {
	if strings.EqualFold(cfg.DBDriver, "sqlite") {
		return sqlite.Open(cfg.SQLitePath)
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, sslMode,
	)
	return postgres.Open(dsn)
}

// Connect opens the database, migrates it outside production and applies
// the pool settings.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger:         NewGormLogger(middleware.Logger, 200*time.Millisecond),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	middleware.Logger.Info("database connected", slog.String("driver", cfg.DBDriver))

	if !cfg.IsProduction() {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		middleware.Logger.Info("database migration completed")
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(orDefault(cfg.DBMaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(orDefault(cfg.DBMaxIdleConns, 5))
	sqlDB.SetConnMaxLifetime(time.Duration(orDefault(cfg.DBConnMaxLifetimeMinutes, 5)) * time.Minute)
	return nil
}

// IsUniqueViolation reports whether err comes from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
