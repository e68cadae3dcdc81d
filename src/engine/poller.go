package engine

import (
	"context"
	dbsql "database/sql"
	"fmt"
	"time"

	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/bank"
	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/logger"
	"github.com/only1thor/autobank/src/models"
	"github.com/only1thor/autobank/src/rules"
)

// CycleStats summarizes one poll cycle; it becomes the poll_completed details.
type CycleStats struct {
	AccountsPolled     int `json:"accounts_polled"`
	RulesEvaluated     int `json:"rules_evaluated"`
	Matches            int `json:"matches"`
	TransfersSucceeded int `json:"transfers_succeeded"`
	TransfersFailed    int `json:"transfers_failed"`
}

// Poller runs one end-to-end evaluation of every enabled rule against its
// trigger account's recent transactions. The scheduler guarantees only one
// cycle runs at a time.
type Poller struct {
	dbh      *dbsql.DB
	bank     bank.Client
	audit    *audit.Logger
	executor *Executor
}

func NewPoller(dbh *dbsql.DB, bankClient bank.Client, auditLog *audit.Logger, executor *Executor) *Poller {
	return &Poller{dbh: dbh, bank: bankClient, audit: auditLog, executor: executor}
}

// RunCycle executes a single poll cycle. Bank failures are confined to the
// account being polled; store failures abort the cycle.
func (p *Poller) RunCycle(ctx context.Context, actor string) (CycleStats, error) {
	var stats CycleStats

	p.audit.Log(ctx, audit.EventPollStarted, actor, map[string]any{})

	enabledRules, err := db.ListEnabledRules(ctx, p.dbh)
	if err != nil {
		p.failCycle(ctx, actor, fmt.Errorf("list enabled rules: %w", err))
		return stats, err
	}

	// Group by trigger account, preserving evaluation order within each.
	accountOrder := make([]string, 0)
	rulesByAccount := make(map[string][]models.Rule)
	for _, rule := range enabledRules {
		if _, ok := rulesByAccount[rule.TriggerAccountKey]; !ok {
			accountOrder = append(accountOrder, rule.TriggerAccountKey)
		}
		rulesByAccount[rule.TriggerAccountKey] = append(rulesByAccount[rule.TriggerAccountKey], rule)
	}

	for _, accountKey := range accountOrder {
		if ctx.Err() != nil {
			p.failCycle(ctx, actor, ctx.Err())
			return stats, ctx.Err()
		}

		accountRules := rulesByAccount[accountKey]
		resp, err := p.bank.ListTransactions(ctx, accountKey)
		if err != nil {
			logger.L.Error("transaction fetch failed", "accountKey", accountKey, "error", err)
			p.audit.Log(ctx, audit.EventPollFailed, actor, map[string]any{
				"account_key": accountKey,
				"error":       err.Error(),
			})
			continue
		}
		stats.AccountsPolled++

		if err := p.processAccount(ctx, actor, accountRules, resp.Transactions, &stats); err != nil {
			p.failCycle(ctx, actor, err)
			return stats, err
		}
	}

	p.audit.Log(ctx, audit.EventPollCompleted, actor, stats)
	return stats, nil
}

func (p *Poller) processAccount(ctx context.Context, actor string, accountRules []models.Rule, transactions []models.Transaction, stats *CycleStats) error {
	now := time.Now().Unix()

	for i := range transactions {
		tx := &transactions[i]
		fingerprint := rules.Fingerprint(tx)

		if _, err := db.UpsertTrackedTransaction(ctx, p.dbh, tx, fingerprint, now); err != nil {
			return fmt.Errorf("upsert tracked transaction %s: %w", tx.ID, err)
		}

		for j := range accountRules {
			rule := &accountRules[j]

			processed, err := db.HasProcessed(ctx, p.dbh, rule.ID, tx.ID, fingerprint)
			if err != nil {
				return fmt.Errorf("check processing log: %w", err)
			}
			if processed {
				continue
			}

			p.audit.LogResource(ctx, audit.EventRuleEvaluated, actor, "rule", rule.ID, map[string]any{
				"transaction_id": tx.ID,
				"fingerprint":    fingerprint,
			})
			stats.RulesEvaluated++

			if !rules.Evaluate(rule.Conditions, tx) {
				if err := db.RecordProcessing(ctx, p.dbh, rule.ID, tx.ID, fingerprint, models.OutcomeSkipped, now); err != nil {
					return fmt.Errorf("record processing: %w", err)
				}
				continue
			}

			p.audit.LogResource(ctx, audit.EventRuleMatched, actor, "rule", rule.ID, map[string]any{
				"transaction_id": tx.ID,
				"rule_name":      rule.Name,
			})
			stats.Matches++

			outcome := models.OutcomeSkipped
			if len(rule.Actions) == 0 {
				// A match with nothing to do is terminal.
				outcome = models.OutcomeExecuted
			}
			for _, action := range rule.Actions {
				result := p.executor.Execute(ctx, rule, tx, action)
				outcome = models.WorstOutcome(outcome, result.LogOutcome)
				if result.TransferSucceeded {
					stats.TransfersSucceeded++
				}
				if result.TransferFailed {
					stats.TransfersFailed++
				}
			}

			if err := db.RecordProcessing(ctx, p.dbh, rule.ID, tx.ID, fingerprint, outcome, now); err != nil {
				return fmt.Errorf("record processing: %w", err)
			}
		}
	}
	return nil
}

func (p *Poller) failCycle(ctx context.Context, actor string, err error) {
	// The audit write must survive the cancellation that aborted the cycle.
	p.audit.Log(context.WithoutCancel(ctx), audit.EventPollFailed, actor, map[string]any{"error": err.Error()})
}
