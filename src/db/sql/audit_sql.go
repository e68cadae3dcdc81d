package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/only1thor/autobank/src/models"
)

// Audit query limits.
const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 1000
)

func AppendAudit(ctx context.Context, dbh *sql.DB, entry *models.AuditEntry) error {
	details := entry.Details
	if details == nil {
		details = []byte("{}")
	}
	_, err := dbh.ExecContext(ctx, `
		INSERT INTO audit_log (id, timestamp, event_type, actor, resource_type, resource_id, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.EventType, entry.Actor,
		entry.ResourceType, entry.ResourceID, string(details))
	return err
}

const auditColumns = `id, timestamp, event_type, actor, resource_type, resource_id, details`

func scanAuditEntry(scan func(dest ...any) error) (*models.AuditEntry, error) {
	var e models.AuditEntry
	var details string
	err := scan(&e.ID, &e.Timestamp, &e.EventType, &e.Actor, &e.ResourceType, &e.ResourceID, &details)
	if err != nil {
		return nil, err
	}
	e.Details = []byte(details)
	return &e, nil
}

// QueryAudit returns matching entries newest first. A non-positive limit gets
// the default; anything above the maximum is clamped.
func QueryAudit(ctx context.Context, dbh *sql.DB, filter models.AuditFilter, limit int64) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE 1=1`
	var args []any
	if filter.EventType != "" {
		query += ` AND event_type = ?`
		args = append(args, filter.EventType)
	}
	if filter.Actor != "" {
		query += ` AND actor = ?`
		args = append(args, filter.Actor)
	}
	if filter.ResourceType != "" {
		query += ` AND resource_type = ?`
		args = append(args, filter.ResourceType)
	}
	if filter.ResourceID != "" {
		query += ` AND resource_id = ?`
		args = append(args, filter.ResourceID)
	}
	if filter.From != 0 {
		query += ` AND timestamp >= ?`
		args = append(args, filter.From)
	}
	if filter.To != 0 {
		query += ` AND timestamp <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := dbh.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func GetAuditEntry(ctx context.Context, dbh *sql.DB, id string) (*models.AuditEntry, error) {
	row := dbh.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audit_log WHERE id = ?`, id)
	entry, err := scanAuditEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}
