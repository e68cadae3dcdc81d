package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied forward-only, in order. Never edit an entry that has
// shipped; append a new one.
var migrations = []string{
	// 001: initial schema
	`
CREATE TABLE IF NOT EXISTS rules (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	enabled INTEGER NOT NULL DEFAULT 1,
	trigger_account_key TEXT NOT NULL,
	conditions TEXT NOT NULL,
	actions TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tracked_transactions (
	id TEXT PRIMARY KEY,
	account_key TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	first_seen_at INTEGER NOT NULL,
	last_updated_at INTEGER NOT NULL,
	settled INTEGER NOT NULL DEFAULT 0,
	raw_data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rule_processing_log (
	id TEXT PRIMARY KEY,
	rule_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	outcome TEXT NOT NULL,
	processed_at INTEGER NOT NULL,
	UNIQUE(rule_id, transaction_id, fingerprint)
);

CREATE TABLE IF NOT EXISTS executions (
	id TEXT PRIMARY KEY,
	rule_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL,
	transfer_payment_id TEXT,
	amount TEXT NOT NULL,
	from_account TEXT NOT NULL,
	to_account TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	executed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	actor TEXT NOT NULL,
	resource_type TEXT,
	resource_id TEXT,
	details TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracked_transactions_account ON tracked_transactions(account_key);
CREATE INDEX IF NOT EXISTS idx_tracked_transactions_settled ON tracked_transactions(settled);
CREATE INDEX IF NOT EXISTS idx_rule_processing_log_rule ON rule_processing_log(rule_id);
CREATE INDEX IF NOT EXISTS idx_executions_rule ON executions(rule_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_log_event_type ON audit_log(event_type);
`,
}

// Migrate applies pending migrations and returns the versions it applied,
// 1-based. The caller emits one database_migrated audit event per version.
func Migrate(ctx context.Context, conn *sql.DB) ([]int, error) {
	_, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	)`)
	if err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err = conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}

	var applied []int
	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return applied, err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", version, err)
		}
		applied = append(applied, version)
	}

	return applied, nil
}
