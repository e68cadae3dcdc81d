package engine

import (
	"context"
	dbsql "database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/bank"
	dbpkg "github.com/only1thor/autobank/src/db"
	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/logger"
	"github.com/only1thor/autobank/src/models"
	"github.com/only1thor/autobank/src/rules"
)

// ExecutionOutcome is what one action attempt contributes to the poll cycle:
// the processing-log outcome for the (rule, tx, fingerprint) triple plus the
// transfer counters for poll_completed.
type ExecutionOutcome struct {
	LogOutcome        string
	TransferSucceeded bool
	TransferFailed    bool
}

// Executor turns a matched (rule, transaction, action) into a bank transfer
// and records the result. It never returns an error to its caller; every
// failure mode collapses into the outcome.
type Executor struct {
	dbh      *dbsql.DB
	bank     bank.Client
	audit    *audit.Logger
	accounts *dbpkg.AccountsCache
}

func NewExecutor(dbh *dbsql.DB, bankClient bank.Client, auditLog *audit.Logger, accounts *dbpkg.AccountsCache) *Executor {
	return &Executor{dbh: dbh, bank: bankClient, audit: auditLog, accounts: accounts}
}

func (e *Executor) listAccounts(ctx context.Context) (*models.AccountData, error) {
	if e.accounts != nil {
		if data, ok := e.accounts.Get(); ok {
			return data, nil
		}
	}
	data, err := e.bank.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if e.accounts != nil {
		e.accounts.Set(data)
	}
	return data, nil
}

func (e *Executor) resolveAccount(ref models.AccountRef, tx *models.Transaction, accounts *models.AccountData) (*models.Account, error) {
	key, err := rules.ResolveAccountKey(ref, tx)
	if err != nil {
		return nil, err
	}
	var account *models.Account
	if ref.Type == models.AccountRefByNumber {
		account = accounts.FindAccountByNumber(key)
	} else {
		account = accounts.FindAccountByKey(key)
	}
	if account == nil {
		return nil, newAccountNotFound(key)
	}
	return account, nil
}

func newAccountNotFound(key string) error {
	return &rules.RuleError{Kind: rules.ErrMissingField, Message: "account " + key + " not found"}
}

// Execute runs one transfer action for a matched rule.
func (e *Executor) Execute(ctx context.Context, rule *models.Rule, tx *models.Transaction, action models.Action) ExecutionOutcome {
	accounts, err := e.listAccounts(ctx)
	if err != nil {
		// Account metadata unavailable: nothing was initiated, retry later.
		logger.L.Warn("account lookup failed, deferring action",
			"ruleId", rule.ID, "transactionId", tx.ID, "error", err)
		return ExecutionOutcome{LogOutcome: models.OutcomeError}
	}

	from, err := e.resolveAccount(action.FromAccount, tx, accounts)
	if err != nil {
		return e.recordFailure(ctx, rule, tx, decimal.Zero, "", "", err.Error())
	}
	to, err := e.resolveAccount(action.ToAccount, tx, accounts)
	if err != nil {
		return e.recordFailure(ctx, rule, tx, decimal.Zero, from.AccountNumber, "", err.Error())
	}

	amount, err := rules.ResolveAmount(action.Amount, tx)
	if err != nil {
		return e.recordFailure(ctx, rule, tx, decimal.Zero, from.AccountNumber, to.AccountNumber, err.Error())
	}

	if from.Key == to.Key {
		return e.recordFailure(ctx, rule, tx, amount, from.AccountNumber, to.AccountNumber, "self transfer")
	}
	if !amount.IsPositive() {
		return e.recordFailure(ctx, rule, tx, amount, from.AccountNumber, to.AccountNumber, "non-positive amount "+amount.String())
	}

	var message *string
	if action.Message != nil {
		normalized := rules.NormalizeMessage(*action.Message)
		message = &normalized
	}

	e.audit.LogResource(ctx, audit.EventTransferInitiated, audit.ActorScheduler, "rule", rule.ID, map[string]any{
		"transaction_id": tx.ID,
		"from_account":   from.AccountNumber,
		"to_account":     to.AccountNumber,
		"amount":         amount.StringFixed(2),
	})

	var resp *models.TransferResponse
	if to.IsCreditCard() {
		resp, err = e.bank.CreateCreditCardTransfer(ctx, &models.CreditCardTransferRequest{
			Amount:              amount.StringFixed(2),
			FromAccount:         from.AccountNumber,
			CreditCardAccountID: *to.CreditCardAccountID,
			Message:             message,
		})
	} else {
		resp, err = e.bank.CreateTransfer(ctx, &models.CreateTransferRequest{
			Amount:      amount.StringFixed(2),
			FromAccount: from.AccountNumber,
			ToAccount:   to.AccountNumber,
			Message:     message,
		})
	}

	if err != nil {
		if bank.IsTransient(err) {
			// Outcome at the bank is undetermined; no execution row, the
			// unchanged fingerprint makes the next cycle retry.
			e.audit.LogResource(ctx, audit.EventTransferFailed, audit.ActorScheduler, "rule", rule.ID, map[string]any{
				"transaction_id": tx.ID,
				"error":          err.Error(),
				"transient":      true,
			})
			return ExecutionOutcome{LogOutcome: models.OutcomeError, TransferFailed: true}
		}
		// The bank deterministically rejected the request.
		out := e.recordFailure(ctx, rule, tx, amount, from.AccountNumber, to.AccountNumber, err.Error())
		return out
	}

	if len(resp.Errors) > 0 {
		return e.recordFailure(ctx, rule, tx, amount, from.AccountNumber, to.AccountNumber, resp.Errors[0].Message)
	}

	execution := &models.Execution{
		ID:                uuid.NewString(),
		RuleID:            rule.ID,
		TransactionID:     tx.ID,
		TransferPaymentID: resp.PaymentID,
		Amount:            amount,
		FromAccount:       from.AccountNumber,
		ToAccount:         to.AccountNumber,
		Status:            models.ExecutionSuccess,
		ExecutedAt:        time.Now().Unix(),
	}
	if err := db.RecordExecution(ctx, e.dbh, execution); err != nil {
		logger.L.Error("failed to record execution", "ruleId", rule.ID, "transactionId", tx.ID, "error", err)
		return ExecutionOutcome{LogOutcome: models.OutcomeError, TransferSucceeded: true}
	}

	e.audit.LogResource(ctx, audit.EventTransferSucceeded, audit.ActorScheduler, "execution", execution.ID, map[string]any{
		"rule_id":        rule.ID,
		"transaction_id": tx.ID,
		"payment_id":     resp.PaymentID,
		"amount":         amount.StringFixed(2),
	})
	return ExecutionOutcome{LogOutcome: models.OutcomeExecuted, TransferSucceeded: true}
}

// recordFailure handles determinate failures, both semantic rejections caught
// before the bank was called and the bank's own application errors: a failed
// execution row, an audit event, and no retry.
func (e *Executor) recordFailure(ctx context.Context, rule *models.Rule, tx *models.Transaction, amount decimal.Decimal, from, to, reason string) ExecutionOutcome {
	execution := &models.Execution{
		ID:            uuid.NewString(),
		RuleID:        rule.ID,
		TransactionID: tx.ID,
		Amount:        amount,
		FromAccount:   from,
		ToAccount:     to,
		Status:        models.ExecutionFailed,
		ErrorMessage:  &reason,
		ExecutedAt:    time.Now().Unix(),
	}
	if err := db.RecordExecution(ctx, e.dbh, execution); err != nil {
		logger.L.Error("failed to record execution", "ruleId", rule.ID, "transactionId", tx.ID, "error", err)
		return ExecutionOutcome{LogOutcome: models.OutcomeError, TransferFailed: true}
	}

	e.audit.LogResource(ctx, audit.EventTransferFailed, audit.ActorScheduler, "execution", execution.ID, map[string]any{
		"rule_id":        rule.ID,
		"transaction_id": tx.ID,
		"error":          reason,
	})
	return ExecutionOutcome{LogOutcome: models.OutcomeExecuted, TransferFailed: true}
}
