package engine

import (
	"context"
	dbsql "database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/bank"
	dbpkg "github.com/only1thor/autobank/src/db"
	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/models"
)

type testEngine struct {
	conn   *dbsql.DB
	bank   *bank.MockClient
	audit  *audit.Logger
	poller *Poller
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	conn, err := dbpkg.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = dbpkg.Migrate(context.Background(), conn)
	require.NoError(t, err)

	mock := bank.NewMockClient()
	auditLog := audit.NewLogger(conn)
	executor := NewExecutor(conn, mock, auditLog, nil)
	poller := NewPoller(conn, mock, auditLog, executor)

	return &testEngine{conn: conn, bank: mock, audit: auditLog, poller: poller}
}

func testAccounts() []models.Account {
	ccID := "cc-account-123"
	return []models.Account{
		{Key: "checking-1", AccountNumber: "11111111111", Name: "Checking"},
		{Key: "savings-1", AccountNumber: "22222222222", Name: "Savings"},
		{Key: "creditcard-1", AccountNumber: "33333333333", Name: "Credit Card", CreditCardAccountID: &ccID},
	}
}

func makeTx(id, accountKey, amount, description, bookingStatus string) models.Transaction {
	return models.Transaction{
		ID:                 id,
		NonUniqueID:        id,
		Description:        &description,
		CleanedDescription: &description,
		Amount:             decimal.RequireFromString(amount),
		TypeCode:           "VISA",
		CurrencyCode:       "NOK",
		BookingStatus:      bookingStatus,
		AccountKey:         accountKey,
		AccountName:        "Test",
	}
}

func makeRule(t *testing.T, e *testEngine, rule *models.Rule) {
	t.Helper()
	require.NoError(t, db.CreateRule(context.Background(), e.conn, rule))
}

func netflixRule(id string) *models.Rule {
	return &models.Rule{
		ID:                id,
		Name:              "Refund Netflix from savings",
		Enabled:           true,
		TriggerAccountKey: "checking-1",
		Conditions: []models.Condition{
			{Type: models.ConditionDescriptionMatches, Pattern: "netflix", CaseInsensitive: true},
			{Type: models.ConditionIsSettled},
		},
		Actions: []models.Action{{
			Type:        models.ActionTransfer,
			FromAccount: models.AccountRef{Type: models.AccountRefByKey, Key: "savings-1"},
			ToAccount:   models.AccountRef{Type: models.AccountRefTriggerAccount},
			Amount:      models.AmountSpec{Type: models.AmountTransactionAbs},
		}},
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}
}
