package models

import "github.com/shopspring/decimal"

// Execution statuses.
const (
	ExecutionSuccess = "success"
	ExecutionFailed  = "failed"
)

// Processing-log outcomes, ordered error > executed > skipped.
const (
	OutcomeExecuted = "executed"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

type Execution struct {
	ID                string          `json:"id"`
	RuleID            string          `json:"rule_id"`
	TransactionID     string          `json:"transaction_id"`
	TransferPaymentID *string         `json:"transfer_payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	FromAccount       string          `json:"from_account"`
	ToAccount         string          `json:"to_account"`
	Status            string          `json:"status"`
	ErrorMessage      *string         `json:"error_message"`
	ExecutedAt        int64           `json:"executed_at"`
}

// ProcessingLogEntry records one decision per (rule, transaction, fingerprint).
type ProcessingLogEntry struct {
	ID            string `json:"id"`
	RuleID        string `json:"rule_id"`
	TransactionID string `json:"transaction_id"`
	Fingerprint   string `json:"fingerprint"`
	Outcome       string `json:"outcome"`
	ProcessedAt   int64  `json:"processed_at"`
}

// WorstOutcome folds two processing outcomes, error > executed > skipped.
func WorstOutcome(a, b string) string {
	rank := func(o string) int {
		switch o {
		case OutcomeError:
			return 2
		case OutcomeExecuted:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
