package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/only1thor/autobank/src/models"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

func CreateRule(ctx context.Context, dbh *sql.DB, rule *models.Rule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	query := `
		INSERT INTO rules (id, name, description, enabled, trigger_account_key, conditions, actions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = dbh.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.Description, rule.Enabled, rule.TriggerAccountKey,
		string(conditions), string(actions), rule.CreatedAt, rule.UpdatedAt)
	return err
}

func scanRule(scan func(dest ...any) error) (*models.Rule, error) {
	var r models.Rule
	var conditions, actions string
	err := scan(&r.ID, &r.Name, &r.Description, &r.Enabled, &r.TriggerAccountKey,
		&conditions, &actions, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(conditions), &r.Conditions); err != nil {
		return nil, fmt.Errorf("unmarshal conditions: %w", err)
	}
	if err := json.Unmarshal([]byte(actions), &r.Actions); err != nil {
		return nil, fmt.Errorf("unmarshal actions: %w", err)
	}
	return &r, nil
}

const ruleColumns = `id, name, description, enabled, trigger_account_key, conditions, actions, created_at, updated_at`

func GetRule(ctx context.Context, dbh *sql.DB, id string) (*models.Rule, error) {
	row := dbh.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM rules WHERE id = ?`, id)
	rule, err := scanRule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rule, err
}

func listRules(ctx context.Context, dbh *sql.DB, query string, args ...any) ([]models.Rule, error) {
	rows, err := dbh.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func ListRules(ctx context.Context, dbh *sql.DB) ([]models.Rule, error) {
	return listRules(ctx, dbh, `SELECT `+ruleColumns+` FROM rules ORDER BY created_at DESC, id DESC`)
}

// ListEnabledRules returns enabled rules in evaluation order: created_at
// ascending, ties broken by id.
func ListEnabledRules(ctx context.Context, dbh *sql.DB) ([]models.Rule, error) {
	return listRules(ctx, dbh, `SELECT `+ruleColumns+` FROM rules WHERE enabled = 1 ORDER BY created_at ASC, id ASC`)
}

func UpdateRule(ctx context.Context, dbh *sql.DB, rule *models.Rule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	query := `
		UPDATE rules
		SET name = ?, description = ?, enabled = ?, trigger_account_key = ?, conditions = ?, actions = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := dbh.ExecContext(ctx, query,
		rule.Name, rule.Description, rule.Enabled, rule.TriggerAccountKey,
		string(conditions), string(actions), rule.UpdatedAt, rule.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteRule(ctx context.Context, dbh *sql.DB, id string) error {
	res, err := dbh.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func SetRuleEnabled(ctx context.Context, dbh *sql.DB, id string, enabled bool, now int64) error {
	res, err := dbh.ExecContext(ctx, `UPDATE rules SET enabled = ?, updated_at = ? WHERE id = ?`, enabled, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func CountRules(ctx context.Context, dbh *sql.DB) (total, enabled int64, err error) {
	err = dbh.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(enabled), 0) FROM rules`).Scan(&total, &enabled)
	return total, enabled, err
}
