package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as plain JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// CanonicalAmount renders an amount as a signed decimal with a dot separator
// and exactly two fractional digits, e.g. "-149.00". Used by the transaction
// fingerprint, so the format must never change.
func CanonicalAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
