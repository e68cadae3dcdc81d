package rules

import "fmt"

type ErrorKind string

const (
	ErrInvalidPattern    ErrorKind = "invalid_pattern"
	ErrMissingField      ErrorKind = "missing_field"
	ErrMessageTooLong    ErrorKind = "message_too_long"
	ErrEmptyAggregate    ErrorKind = "empty_aggregate"
	ErrUnknownVariant    ErrorKind = "unknown_variant"
	ErrNonPositiveAmount ErrorKind = "non_positive_amount"
	ErrSelfTransfer      ErrorKind = "self_transfer"
)

// RuleError carries the kind so callers can tell validation problems apart
// from execution-time rejections.
type RuleError struct {
	Kind    ErrorKind
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func newRuleError(kind ErrorKind, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
