package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/only1thor/autobank/src/models"
)

// Fingerprint digests the mutable fields of a transaction. A changed
// description, amount, type code, or booking status yields a new fingerprint,
// which is what lets a pending-then-settled transaction be re-evaluated.
//
// Only the cleaned description participates; a transaction without one
// contributes the empty string.
func Fingerprint(tx *models.Transaction) string {
	cleaned := ""
	if tx.CleanedDescription != nil {
		cleaned = *tx.CleanedDescription
	}

	content := strings.Join([]string{
		tx.ID,
		cleaned,
		models.CanonicalAmount(tx.Amount),
		tx.TypeCode,
		tx.BookingStatus,
	}, "|")

	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
