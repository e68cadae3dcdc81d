package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/only1thor/autobank/src/models"
)

// RecordProcessing upserts the decision for a (rule, transaction, fingerprint)
// triple. Re-recording the same triple replaces the outcome, which is how a
// transient error row becomes executed on a successful retry.
func RecordProcessing(ctx context.Context, dbh *sql.DB, ruleID, txID, fingerprint, outcome string, now int64) error {
	_, err := dbh.ExecContext(ctx, `
		INSERT INTO rule_processing_log (id, rule_id, transaction_id, fingerprint, outcome, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(rule_id, transaction_id, fingerprint)
		DO UPDATE SET outcome = excluded.outcome, processed_at = excluded.processed_at`,
		uuid.NewString(), ruleID, txID, fingerprint, outcome, now)
	return err
}

// HasProcessed reports whether the triple already carries a terminal decision.
// An error outcome does not count: transient failures are retried on the next
// cycle as long as the fingerprint is unchanged.
func HasProcessed(ctx context.Context, dbh *sql.DB, ruleID, txID, fingerprint string) (bool, error) {
	var count int64
	err := dbh.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rule_processing_log
		WHERE rule_id = ? AND transaction_id = ? AND fingerprint = ? AND outcome != ?`,
		ruleID, txID, fingerprint, models.OutcomeError).Scan(&count)
	return count > 0, err
}

func ListProcessingLog(ctx context.Context, dbh *sql.DB, ruleID, txID string) ([]models.ProcessingLogEntry, error) {
	rows, err := dbh.QueryContext(ctx, `
		SELECT id, rule_id, transaction_id, fingerprint, outcome, processed_at
		FROM rule_processing_log
		WHERE rule_id = ? AND transaction_id = ?
		ORDER BY processed_at ASC`, ruleID, txID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ProcessingLogEntry
	for rows.Next() {
		var e models.ProcessingLogEntry
		if err := rows.Scan(&e.ID, &e.RuleID, &e.TransactionID, &e.Fingerprint, &e.Outcome, &e.ProcessedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
