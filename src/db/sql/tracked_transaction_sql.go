package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/only1thor/autobank/src/models"
)

// UpsertTrackedTransaction records the latest sighting of a transaction and
// reports whether it is new, unchanged, or changed since the previous
// sighting. first_seen_at is preserved across updates.
func UpsertTrackedTransaction(ctx context.Context, dbh *sql.DB, tx *models.Transaction, fingerprint string, now int64) (models.UpsertResult, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("marshal transaction: %w", err)
	}

	var prev string
	err = dbh.QueryRowContext(ctx, `SELECT fingerprint FROM tracked_transactions WHERE id = ?`, tx.ID).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = dbh.ExecContext(ctx, `
			INSERT INTO tracked_transactions (id, account_key, fingerprint, first_seen_at, last_updated_at, settled, raw_data)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.AccountKey, fingerprint, now, now, tx.IsSettled(), string(raw))
		if err != nil {
			return models.UpsertResult{}, err
		}
		return models.UpsertResult{Inserted: true}, nil
	case err != nil:
		return models.UpsertResult{}, err
	}

	_, err = dbh.ExecContext(ctx, `
		UPDATE tracked_transactions
		SET fingerprint = ?, last_updated_at = ?, settled = ?, raw_data = ?
		WHERE id = ?`,
		fingerprint, now, tx.IsSettled(), string(raw), tx.ID)
	if err != nil {
		return models.UpsertResult{}, err
	}

	if prev == fingerprint {
		return models.UpsertResult{}, nil
	}
	return models.UpsertResult{Changed: true, PrevFingerprint: prev}, nil
}

func GetTrackedTransaction(ctx context.Context, dbh *sql.DB, id string) (*models.TrackedTransaction, error) {
	var t models.TrackedTransaction
	err := dbh.QueryRowContext(ctx, `
		SELECT id, account_key, fingerprint, first_seen_at, last_updated_at, settled, raw_data
		FROM tracked_transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.AccountKey, &t.Fingerprint, &t.FirstSeenAt, &t.LastUpdatedAt, &t.Settled, &t.RawData)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
