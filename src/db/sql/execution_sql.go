package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/only1thor/autobank/src/models"
)

func RecordExecution(ctx context.Context, dbh *sql.DB, exec *models.Execution) error {
	_, err := dbh.ExecContext(ctx, `
		INSERT INTO executions (id, rule_id, transaction_id, transfer_payment_id, amount, from_account, to_account, status, error_message, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exec.ID, exec.RuleID, exec.TransactionID, exec.TransferPaymentID,
		exec.Amount.String(), exec.FromAccount, exec.ToAccount,
		exec.Status, exec.ErrorMessage, exec.ExecutedAt)
	return err
}

const executionColumns = `id, rule_id, transaction_id, transfer_payment_id, amount, from_account, to_account, status, error_message, executed_at`

func scanExecution(scan func(dest ...any) error) (*models.Execution, error) {
	var e models.Execution
	var amount string
	err := scan(&e.ID, &e.RuleID, &e.TransactionID, &e.TransferPaymentID,
		&amount, &e.FromAccount, &e.ToAccount, &e.Status, &e.ErrorMessage, &e.ExecutedAt)
	if err != nil {
		return nil, err
	}
	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse execution amount %q: %w", amount, err)
	}
	return &e, nil
}

func ListExecutions(ctx context.Context, dbh *sql.DB, filter models.ExecutionFilter, limit int64) ([]models.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE 1=1`
	var args []any
	if filter.RuleID != "" {
		query += ` AND rule_id = ?`
		args = append(args, filter.RuleID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY executed_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := dbh.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []models.Execution
	for rows.Next() {
		e, err := scanExecution(rows.Scan)
		if err != nil {
			return nil, err
		}
		executions = append(executions, *e)
	}
	return executions, rows.Err()
}

func GetExecution(ctx context.Context, dbh *sql.DB, id string) (*models.Execution, error) {
	row := dbh.QueryRowContext(ctx, `SELECT `+executionColumns+` FROM executions WHERE id = ?`, id)
	exec, err := scanExecution(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return exec, err
}

func CountExecutions(ctx context.Context, dbh *sql.DB) (int64, error) {
	var count int64
	err := dbh.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions`).Scan(&count)
	return count, err
}
