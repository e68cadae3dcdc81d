package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/only1thor/autobank/src/models"
)

func fingerprintTx() models.Transaction {
	desc := "Netflix"
	return models.Transaction{
		ID:                 "tx-1",
		CleanedDescription: &desc,
		Amount:             decimal.RequireFromString("-149"),
		TypeCode:           "VISA",
		BookingStatus:      "PENDING",
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	tx := fingerprintTx()
	first := Fingerprint(&tx)
	second := Fingerprint(&tx)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestFingerprintChangesWithEachField(t *testing.T) {
	base := Fingerprint(func() *models.Transaction { tx := fingerprintTx(); return &tx }())

	tests := []struct {
		name   string
		mutate func(tx *models.Transaction)
	}{
		{"id", func(tx *models.Transaction) { tx.ID = "tx-2" }},
		{"description", func(tx *models.Transaction) { d := "Spotify"; tx.CleanedDescription = &d }},
		{"amount", func(tx *models.Transaction) { tx.Amount = decimal.RequireFromString("-150") }},
		{"type code", func(tx *models.Transaction) { tx.TypeCode = "TRANSFER" }},
		{"booking status", func(tx *models.Transaction) { tx.BookingStatus = models.BookingStatusBooked }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := fingerprintTx()
			tc.mutate(&tx)
			assert.NotEqual(t, base, Fingerprint(&tx))
		})
	}
}

func TestFingerprintMissingCleanedDescription(t *testing.T) {
	tx := fingerprintTx()
	tx.CleanedDescription = nil
	withEmpty := fingerprintTx()
	empty := ""
	withEmpty.CleanedDescription = &empty
	// Absent and empty cleaned descriptions digest identically; the raw
	// description never participates.
	raw := "NETFLIX.COM"
	tx.Description = &raw
	assert.Equal(t, Fingerprint(&withEmpty), Fingerprint(&tx))
}

func TestFingerprintAmountCanonicalization(t *testing.T) {
	a := fingerprintTx()
	a.Amount = decimal.RequireFromString("-149")
	b := fingerprintTx()
	b.Amount = decimal.RequireFromString("-149.00")
	assert.Equal(t, Fingerprint(&a), Fingerprint(&b))
}
