package models

import "github.com/shopspring/decimal"

type Account struct {
	Key                 string          `json:"key"`
	AccountNumber       string          `json:"accountNumber"`
	IBAN                string          `json:"iban"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Balance             decimal.Decimal `json:"balance"`
	AvailableBalance    decimal.Decimal `json:"availableBalance"`
	CurrencyCode        string          `json:"currencyCode"`
	ProductType         string          `json:"productType"`
	Type                string          `json:"type"`
	CreditCardAccountID *string         `json:"creditCardAccountId"`
}

// IsCreditCard reports whether transfers to this account must go through the
// dedicated credit-card endpoint.
func (a *Account) IsCreditCard() bool {
	return a.CreditCardAccountID != nil && *a.CreditCardAccountID != ""
}

type AccountData struct {
	Accounts []Account `json:"accounts"`
}

// FindAccountByKey returns the account with the given key, or nil.
func (d *AccountData) FindAccountByKey(key string) *Account {
	for i := range d.Accounts {
		if d.Accounts[i].Key == key {
			return &d.Accounts[i]
		}
	}
	return nil
}

// FindAccountByNumber returns the account with the given number, or nil.
func (d *AccountData) FindAccountByNumber(number string) *Account {
	for i := range d.Accounts {
		if d.Accounts[i].AccountNumber == number {
			return &d.Accounts[i]
		}
	}
	return nil
}
