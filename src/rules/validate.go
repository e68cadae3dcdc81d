package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/only1thor/autobank/src/models"
)

// MaxMessageLength bounds a transfer message after normalization.
const MaxMessageLength = 40

// NormalizeMessage trims surrounding whitespace; length limits apply to the
// normalized form.
func NormalizeMessage(message string) string {
	return strings.TrimSpace(message)
}

// ValidateRule checks everything that must hold before a rule may enter the
// store. Evaluation and execution assume rules passed this.
func ValidateRule(rule *models.Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return newRuleError(ErrMissingField, "rule name is required")
	}
	if strings.TrimSpace(rule.TriggerAccountKey) == "" {
		return newRuleError(ErrMissingField, "trigger_account_key is required")
	}
	for i := range rule.Conditions {
		if err := validateCondition(&rule.Conditions[i]); err != nil {
			return err
		}
	}
	for i := range rule.Actions {
		if err := validateAction(&rule.Actions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(c *models.Condition) error {
	switch c.Type {
	case models.ConditionDescriptionMatches:
		if c.Pattern == "" {
			return newRuleError(ErrMissingField, "description_matches requires a pattern")
		}
		pattern := c.Pattern
		if c.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return newRuleError(ErrInvalidPattern, "invalid pattern %q: %v", c.Pattern, err)
		}
	case models.ConditionAmountGreaterThan, models.ConditionAmountLessThan:
		if c.Value == nil {
			return newRuleError(ErrMissingField, "%s requires a value", c.Type)
		}
	case models.ConditionAmountBetween:
		if c.Min == nil || c.Max == nil {
			return newRuleError(ErrMissingField, "amount_between requires min and max")
		}
	case models.ConditionAmountEquals:
		if c.Value == nil {
			return newRuleError(ErrMissingField, "amount_equals requires a value")
		}
	case models.ConditionTransactionType:
		if c.TypeCode == "" {
			return newRuleError(ErrMissingField, "transaction_type requires a type_code")
		}
	case models.ConditionIsSettled:
		// no payload
	case models.ConditionAnd, models.ConditionOr:
		for i := range c.Conditions {
			if err := validateCondition(&c.Conditions[i]); err != nil {
				return err
			}
		}
	case models.ConditionNot:
		if c.Condition == nil {
			return newRuleError(ErrMissingField, "not requires a child condition")
		}
		return validateCondition(c.Condition)
	default:
		return newRuleError(ErrUnknownVariant, "unknown condition type %q", c.Type)
	}
	return nil
}

func validateAction(a *models.Action) error {
	if a.Type != models.ActionTransfer {
		return newRuleError(ErrUnknownVariant, "unknown action type %q", a.Type)
	}
	if err := validateAccountRef(&a.FromAccount); err != nil {
		return err
	}
	if err := validateAccountRef(&a.ToAccount); err != nil {
		return err
	}
	if err := validateAmountSpec(&a.Amount); err != nil {
		return err
	}
	if a.Message != nil {
		normalized := NormalizeMessage(*a.Message)
		if utf8.RuneCountInString(normalized) > MaxMessageLength {
			return newRuleError(ErrMessageTooLong, "message exceeds %d characters", MaxMessageLength)
		}
	}
	return nil
}

func validateAccountRef(ref *models.AccountRef) error {
	switch ref.Type {
	case models.AccountRefByKey:
		if ref.Key == "" {
			return newRuleError(ErrMissingField, "by_key account ref requires a key")
		}
	case models.AccountRefByNumber:
		if ref.Number == "" {
			return newRuleError(ErrMissingField, "by_number account ref requires a number")
		}
	case models.AccountRefTriggerAccount:
		// no payload
	default:
		return newRuleError(ErrUnknownVariant, "unknown account ref type %q", ref.Type)
	}
	return nil
}

func validateAmountSpec(spec *models.AmountSpec) error {
	switch spec.Type {
	case models.AmountFixed:
		if spec.Value == nil {
			return newRuleError(ErrMissingField, "fixed amount requires a value")
		}
	case models.AmountTransaction, models.AmountTransactionAbs:
		// no payload
	case models.AmountPercentage:
		if spec.OfTransaction == nil {
			return newRuleError(ErrMissingField, "percentage requires of_transaction")
		}
	case models.AmountMin, models.AmountMax:
		if len(spec.Specs) == 0 {
			return newRuleError(ErrEmptyAggregate, "%s requires at least one child spec", spec.Type)
		}
		for i := range spec.Specs {
			if err := validateAmountSpec(&spec.Specs[i]); err != nil {
				return err
			}
		}
	default:
		return newRuleError(ErrUnknownVariant, "unknown amount spec type %q", spec.Type)
	}
	return nil
}
