package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/placement-cell-api/pkg/config"
)

// LedgerSchema creates the ledger table used by the postgres backend.
const LedgerSchema = `CREATE TABLE IF NOT EXISTS placement_records (
	record_id INTEGER PRIMARY KEY,
	company_id TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	campus_type TEXT NOT NULL DEFAULT '',
	pr_assigned TEXT NOT NULL DEFAULT '',
	pr_name TEXT NOT NULL DEFAULT '',
	placement_origin TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	noof_students_placed TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	package TEXT NOT NULL DEFAULT '',
	student_names TEXT NOT NULL DEFAULT '',
	class_distribution TEXT NOT NULL DEFAULT ''
)`

// DSN renders the lib/pq connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureLedgerSchema creates the ledger table when missing.
func EnsureLedgerSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, LedgerSchema); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	return nil
}
