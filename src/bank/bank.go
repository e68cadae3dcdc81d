package bank

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/only1thor/autobank/src/models"
)

// Client is the surface the engine consumes. Implemented by the SpareBank 1
// HTTP client, the mock client, and the demo client.
type Client interface {
	ListAccounts(ctx context.Context) (*models.AccountData, error)
	ListTransactions(ctx context.Context, accountKey string) (*models.TransactionResponse, error)
	CreateTransfer(ctx context.Context, req *models.CreateTransferRequest) (*models.TransferResponse, error)
	CreateCreditCardTransfer(ctx context.Context, req *models.CreditCardTransferRequest) (*models.TransferResponse, error)
}

// APIError is a response the bank actively produced. Anything else coming out
// of the client (transport, timeouts) is a plain wrapped error.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bank api error: %s - %s", e.Code, e.Message)
}

// IsTransient reports whether an error is worth retrying on a later cycle.
// Transport failures, 5xx, rate limiting, and auth errors (the client
// refreshes its own token) are transient; other 4xx responses are the bank
// deterministically rejecting the request.
func IsTransient(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
		return true
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return true
	case apiErr.StatusCode >= 500:
		return true
	case apiErr.StatusCode >= 400:
		return false
	default:
		return true
	}
}
