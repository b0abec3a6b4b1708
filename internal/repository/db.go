package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
	_ "modernc.org/sqlite"             // database/sql driver "sqlite"
)

type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// DB wraps database/sql with the resolved driver name, so repositories can
// rebind placeholders for Postgres.
type DB struct {
	*sql.DB
	driver string
}

// Open connects the archive. A postgres:// DSN selects pgx; anything else is
// treated as a local sqlite file path.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, dsn := resolveDriver(cfg.DSN)
	logger.Info("opening archive", "driver", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open archive", "driver", driver, "error", err)
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("archive ping failed", "driver", driver, "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}

	logger.Info("archive connected")
	return &DB{DB: db, driver: driver}, nil
}

// Close closes the archive connection gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.DB.Close(); err != nil {
		logger.Error("failed to close archive", "error", err)
		return
	}
	logger.Info("archive closed")
}

func resolveDriver(dsn string) (driver, resolved string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx", dsn
	}
	return "sqlite", dsn
}

// rebind converts ?-style placeholders to $n for the pgx driver. Queries in
// this package are written sqlite-first.
func (db *DB) rebind(query string) string {
	if db.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS extraction_attempt (
		id              TEXT PRIMARY KEY,
		status          TEXT NOT NULL,
		image_count     INTEGER NOT NULL,
		model_name      TEXT NOT NULL,
		raw_reply       TEXT NOT NULL DEFAULT '',
		sanitized_reply TEXT NOT NULL DEFAULT '',
		record_json     TEXT NOT NULL DEFAULT '',
		error_message   TEXT NOT NULL DEFAULT '',
		started_at      TIMESTAMP NOT NULL,
		finished_at     TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS voter_record (
		id                             TEXT PRIMARY KEY,
		attempt_id                     TEXT NOT NULL,
		election_number                TEXT NOT NULL DEFAULT '',
		name                           TEXT NOT NULL DEFAULT '',
		relation_name                  TEXT NOT NULL DEFAULT '',
		gender                         TEXT NOT NULL DEFAULT '',
		date_of_birth                  TEXT NOT NULL DEFAULT '',
		address                        TEXT NOT NULL DEFAULT '',
		city                           TEXT NOT NULL DEFAULT '',
		state                          TEXT NOT NULL DEFAULT '',
		pincode                        TEXT NOT NULL DEFAULT '',
		electoral_registration_officer TEXT NOT NULL DEFAULT '',
		issue_date                     TEXT NOT NULL DEFAULT '',
		created_at                     TIMESTAMP NOT NULL
	)`,
}

// Migrate applies the archive schema. Idempotent.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("migration failed", "error", err)
			return fmt.Errorf("migrate archive: %w", err)
		}
	}
	logger.Debug("archive schema up to date")
	return nil
}
