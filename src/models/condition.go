package models

import "github.com/shopspring/decimal"

// Condition variant tags. A condition is a tagged union encoded as a single
// struct; the Type field decides which of the other fields are meaningful.
const (
	ConditionDescriptionMatches = "description_matches"
	ConditionAmountGreaterThan  = "amount_greater_than"
	ConditionAmountLessThan     = "amount_less_than"
	ConditionAmountBetween      = "amount_between"
	ConditionAmountEquals       = "amount_equals"
	ConditionTransactionType    = "transaction_type"
	ConditionIsSettled          = "is_settled"
	ConditionAnd                = "and"
	ConditionOr                 = "or"
	ConditionNot                = "not"
)

type Condition struct {
	Type            string           `json:"type"`
	Pattern         string           `json:"pattern,omitempty"`
	CaseInsensitive bool             `json:"case_insensitive,omitempty"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	Min             *decimal.Decimal `json:"min,omitempty"`
	Max             *decimal.Decimal `json:"max,omitempty"`
	Tolerance       *decimal.Decimal `json:"tolerance,omitempty"`
	TypeCode        string           `json:"type_code,omitempty"`
	Conditions      []Condition      `json:"conditions,omitempty"`
	Condition       *Condition       `json:"condition,omitempty"`
}

// AccountRef variant tags.
const (
	AccountRefByKey          = "by_key"
	AccountRefByNumber       = "by_number"
	AccountRefTriggerAccount = "trigger_account"
)

type AccountRef struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Number string `json:"number,omitempty"`
}

// AmountSpec variant tags.
const (
	AmountFixed          = "fixed"
	AmountTransaction    = "transaction_amount"
	AmountTransactionAbs = "transaction_amount_abs"
	AmountPercentage     = "percentage"
	AmountMin            = "min"
	AmountMax            = "max"
)

type AmountSpec struct {
	Type          string           `json:"type"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	OfTransaction *decimal.Decimal `json:"of_transaction,omitempty"`
	Specs         []AmountSpec     `json:"specs,omitempty"`
}

// ActionTransfer is the only action variant.
const ActionTransfer = "transfer"

type Action struct {
	Type        string     `json:"type"`
	FromAccount AccountRef `json:"from_account"`
	ToAccount   AccountRef `json:"to_account"`
	Amount      AmountSpec `json:"amount"`
	Message     *string    `json:"message,omitempty"`
}
