package models

// CreateTransferRequest is the payload for the generic transfer endpoint.
// Amount is a pre-formatted decimal string, e.g. "149.00".
type CreateTransferRequest struct {
	Amount       string  `json:"amount"`
	FromAccount  string  `json:"fromAccount"`
	ToAccount    string  `json:"toAccount"`
	Message      *string `json:"message,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	CurrencyCode *string `json:"currencyCode,omitempty"`
}

// CreditCardTransferRequest is the payload for the credit-card endpoint.
type CreditCardTransferRequest struct {
	Amount              string  `json:"amount"`
	FromAccount         string  `json:"fromAccount"`
	CreditCardAccountID string  `json:"creditCardAccountId"`
	Message             *string `json:"message,omitempty"`
}

type TransferError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

type TransferResponse struct {
	PaymentID *string         `json:"paymentId"`
	Errors    []TransferError `json:"errors"`
}
