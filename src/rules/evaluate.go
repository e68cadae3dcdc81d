package rules

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/only1thor/autobank/src/models"
)

// Evaluate runs a rule's condition list against a transaction. The top level
// is an implicit AND and short-circuits on the first false.
func Evaluate(conditions []models.Condition, tx *models.Transaction) bool {
	for _, c := range conditions {
		if !evaluateCondition(&c, tx) {
			return false
		}
	}
	return true
}

func evaluateCondition(c *models.Condition, tx *models.Transaction) bool {
	switch c.Type {
	case models.ConditionDescriptionMatches:
		pattern := c.Pattern
		if c.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		// Patterns are validated at CRUD time; a compile failure here means
		// a row predating validation, which must not match anything.
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(tx.DisplayDescription())

	case models.ConditionAmountGreaterThan:
		return c.Value != nil && tx.Amount.GreaterThan(*c.Value)

	case models.ConditionAmountLessThan:
		return c.Value != nil && tx.Amount.LessThan(*c.Value)

	case models.ConditionAmountBetween:
		return c.Min != nil && c.Max != nil &&
			tx.Amount.GreaterThanOrEqual(*c.Min) && tx.Amount.LessThanOrEqual(*c.Max)

	case models.ConditionAmountEquals:
		if c.Value == nil {
			return false
		}
		tolerance := decimal.Zero
		if c.Tolerance != nil {
			tolerance = *c.Tolerance
		}
		return tx.Amount.Sub(*c.Value).Abs().LessThanOrEqual(tolerance)

	case models.ConditionTransactionType:
		return tx.TypeCode == c.TypeCode

	case models.ConditionIsSettled:
		return tx.IsSettled()

	case models.ConditionAnd:
		for _, child := range c.Conditions {
			if !evaluateCondition(&child, tx) {
				return false
			}
		}
		return true

	case models.ConditionOr:
		for _, child := range c.Conditions {
			if evaluateCondition(&child, tx) {
				return true
			}
		}
		return false

	case models.ConditionNot:
		return c.Condition != nil && !evaluateCondition(c.Condition, tx)

	default:
		return false
	}
}

// ResolveAccountKey maps an account reference to a key in the bank's
// namespace. by_number refs resolve to the number itself; the executor looks
// both up in the live account list.
func ResolveAccountKey(ref models.AccountRef, tx *models.Transaction) (string, error) {
	switch ref.Type {
	case models.AccountRefByKey:
		return ref.Key, nil
	case models.AccountRefByNumber:
		return ref.Number, nil
	case models.AccountRefTriggerAccount:
		return tx.AccountKey, nil
	default:
		return "", newRuleError(ErrUnknownVariant, "unknown account ref type %q", ref.Type)
	}
}

// ResolveAmount computes the value an amount spec yields for a transaction.
// The result may be negative (transaction_amount on a debit); the executor
// rejects non-positive amounts before calling the bank.
func ResolveAmount(spec models.AmountSpec, tx *models.Transaction) (decimal.Decimal, error) {
	switch spec.Type {
	case models.AmountFixed:
		if spec.Value == nil {
			return decimal.Zero, newRuleError(ErrMissingField, "fixed amount requires a value")
		}
		return *spec.Value, nil

	case models.AmountTransaction:
		return tx.Amount, nil

	case models.AmountTransactionAbs:
		return tx.Amount.Abs(), nil

	case models.AmountPercentage:
		if spec.OfTransaction == nil {
			return decimal.Zero, newRuleError(ErrMissingField, "percentage requires of_transaction")
		}
		return tx.Amount.Abs().Mul(*spec.OfTransaction).Div(decimal.NewFromInt(100)), nil

	case models.AmountMin, models.AmountMax:
		if len(spec.Specs) == 0 {
			return decimal.Zero, newRuleError(ErrEmptyAggregate, "%s requires at least one child spec", spec.Type)
		}
		result, err := ResolveAmount(spec.Specs[0], tx)
		if err != nil {
			return decimal.Zero, err
		}
		for _, child := range spec.Specs[1:] {
			v, err := ResolveAmount(child, tx)
			if err != nil {
				return decimal.Zero, err
			}
			if spec.Type == models.AmountMin && v.LessThan(result) {
				result = v
			}
			if spec.Type == models.AmountMax && v.GreaterThan(result) {
				result = v
			}
		}
		return result, nil

	default:
		return decimal.Zero, newRuleError(ErrUnknownVariant, "unknown amount spec type %q", spec.Type)
	}
}
