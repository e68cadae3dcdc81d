package bank

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/only1thor/autobank/src/models"
)

func strPtr(s string) *string { return &s }

// NewDemoClient returns a mock client seeded with sample accounts and
// transactions, so the full loop can be exercised without bank credentials.
// Transfers are simulated and recorded.
func NewDemoClient() *MockClient {
	client := NewMockClient()

	ccAccountID := "cc-account-123"
	accounts := []models.Account{
		{
			Key:              "checking-1",
			AccountNumber:    "12345678901",
			IBAN:             "NO9312345678901",
			Name:             "Checking Account",
			Description:      "Main checking account",
			Balance:          decimal.RequireFromString("15420.50"),
			AvailableBalance: decimal.RequireFromString("15420.50"),
			CurrencyCode:     "NOK",
			ProductType:      "CURRENT",
			Type:             "ACCOUNT",
		},
		{
			Key:              "savings-1",
			AccountNumber:    "12345678902",
			IBAN:             "NO9312345678902",
			Name:             "Savings Account",
			Description:      "High-interest savings",
			Balance:          decimal.RequireFromString("52000.00"),
			AvailableBalance: decimal.RequireFromString("52000.00"),
			CurrencyCode:     "NOK",
			ProductType:      "SAVINGS",
			Type:             "ACCOUNT",
		},
		{
			Key:                 "creditcard-1",
			AccountNumber:       "12345678903",
			IBAN:                "NO9312345678903",
			Name:                "Credit Card",
			Description:         "Visa Gold",
			Balance:             decimal.RequireFromString("-2340.00"),
			AvailableBalance:    decimal.RequireFromString("47660.00"),
			CurrencyCode:        "NOK",
			ProductType:         "CREDITCARD",
			Type:                "CREDITCARD",
			CreditCardAccountID: &ccAccountID,
		},
	}
	client.SetAccounts(accounts)

	now := time.Now().UnixMilli()
	day := int64(86400000)

	client.SetTransactions("checking-1", []models.Transaction{
		{
			ID:                 "tx-001",
			NonUniqueID:        "tx-001",
			Description:        strPtr("NETFLIX.COM"),
			CleanedDescription: strPtr("Netflix"),
			Amount:             decimal.RequireFromString("-149.00"),
			Date:               now - day,
			TypeCode:           "VISA",
			TypeText:           "Card payment",
			CurrencyCode:       "NOK",
			BookingStatus:      "PENDING",
			AccountKey:         "checking-1",
			AccountName:        "Checking Account",
			RemoteAccountName:  strPtr("Netflix"),
		},
		{
			ID:                 "tx-002",
			NonUniqueID:        "tx-002",
			Description:        strPtr("REMA 1000 TRONDHEIM"),
			CleanedDescription: strPtr("Rema 1000"),
			Amount:             decimal.RequireFromString("-432.75"),
			Date:               now - 2*day,
			TypeCode:           "VISA",
			TypeText:           "Card payment",
			CurrencyCode:       "NOK",
			BookingStatus:      models.BookingStatusBooked,
			AccountKey:         "checking-1",
			AccountName:        "Checking Account",
		},
		{
			ID:                 "tx-003",
			NonUniqueID:        "tx-003",
			Description:        strPtr("Salary"),
			CleanedDescription: strPtr("Salary"),
			Amount:             decimal.RequireFromString("32500.00"),
			Date:               now - 5*day,
			TypeCode:           "TRANSFER",
			TypeText:           "Incoming transfer",
			CurrencyCode:       "NOK",
			BookingStatus:      models.BookingStatusBooked,
			AccountKey:         "checking-1",
			AccountName:        "Checking Account",
		},
	})
	client.SetTransactions("savings-1", []models.Transaction{})
	client.SetTransactions("creditcard-1", []models.Transaction{})

	return client
}
