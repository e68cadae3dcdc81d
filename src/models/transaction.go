package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BookingStatusBooked is the bank's sentinel for a settled transaction.
// Every other booking status means the transaction is still pending.
const BookingStatusBooked = "BOOKED"

type Transaction struct {
	ID                 string          `json:"id"`
	NonUniqueID        string          `json:"nonUniqueId"`
	Description        *string         `json:"description"`
	CleanedDescription *string         `json:"cleanedDescription"`
	Amount             decimal.Decimal `json:"amount"`
	Date               int64           `json:"date"`
	TypeCode           string          `json:"typeCode"`
	TypeText           string          `json:"typeText"`
	CurrencyCode       string          `json:"currencyCode"`
	BookingStatus      string          `json:"bookingStatus"`
	AccountKey         string          `json:"accountKey"`
	AccountName        string          `json:"accountName"`
	RemoteAccountName  *string         `json:"remoteAccountName"`
	KidOrMessage       *string         `json:"kidOrMessage"`
}

// DisplayDescription is the text rules match against: the bank's cleaned
// description when present, the raw description otherwise, else empty.
func (t *Transaction) DisplayDescription() string {
	if t.CleanedDescription != nil {
		return *t.CleanedDescription
	}
	if t.Description != nil {
		return *t.Description
	}
	return ""
}

// IsSettled reports whether the transaction has reached its terminal
// booking status.
func (t *Transaction) IsSettled() bool {
	return t.BookingStatus == BookingStatusBooked
}

type TransactionResponse struct {
	Transactions []Transaction     `json:"transactions"`
	Errors       []json.RawMessage `json:"errors"`
}
