package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/only1thor/autobank/src/models"
)

func validRule() models.Rule {
	return models.Rule{
		ID:                "rule-1",
		Name:              "Netflix refund",
		TriggerAccountKey: "acc-1",
		Conditions: []models.Condition{
			{Type: models.ConditionDescriptionMatches, Pattern: "netflix", CaseInsensitive: true},
			{Type: models.ConditionIsSettled},
		},
		Actions: []models.Action{{
			Type:        models.ActionTransfer,
			FromAccount: models.AccountRef{Type: models.AccountRefByKey, Key: "acc-2"},
			ToAccount:   models.AccountRef{Type: models.AccountRefTriggerAccount},
			Amount:      models.AmountSpec{Type: models.AmountTransactionAbs},
		}},
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, kind, ruleErr.Kind)
}

func TestValidateRuleAcceptsValidRule(t *testing.T) {
	rule := validRule()
	assert.NoError(t, ValidateRule(&rule))
}

func TestValidateRuleRequiresNameAndTriggerAccount(t *testing.T) {
	rule := validRule()
	rule.Name = "  "
	requireKind(t, ValidateRule(&rule), ErrMissingField)

	rule = validRule()
	rule.TriggerAccountKey = ""
	requireKind(t, ValidateRule(&rule), ErrMissingField)
}

func TestValidateRuleRejectsMalformedPattern(t *testing.T) {
	rule := validRule()
	rule.Conditions[0].Pattern = "(unclosed"
	requireKind(t, ValidateRule(&rule), ErrInvalidPattern)
}

func TestValidateRuleRejectsUnknownVariants(t *testing.T) {
	rule := validRule()
	rule.Conditions = append(rule.Conditions, models.Condition{Type: "sometimes"})
	requireKind(t, ValidateRule(&rule), ErrUnknownVariant)

	rule = validRule()
	rule.Actions[0].Amount = models.AmountSpec{Type: "guess"}
	requireKind(t, ValidateRule(&rule), ErrUnknownVariant)
}

func TestValidateRuleRejectsEmptyAggregate(t *testing.T) {
	rule := validRule()
	rule.Actions[0].Amount = models.AmountSpec{Type: models.AmountMin}
	requireKind(t, ValidateRule(&rule), ErrEmptyAggregate)
}

func TestValidateRuleMessageLength(t *testing.T) {
	rule := validRule()
	message := strings.Repeat("x", 41)
	rule.Actions[0].Message = &message
	requireKind(t, ValidateRule(&rule), ErrMessageTooLong)

	// Whitespace is trimmed before the limit applies.
	padded := "  " + strings.Repeat("x", 40) + "  "
	rule.Actions[0].Message = &padded
	assert.NoError(t, ValidateRule(&rule))
}

func TestValidateRuleChecksNestedConditions(t *testing.T) {
	rule := validRule()
	rule.Conditions = []models.Condition{{
		Type: models.ConditionOr,
		Conditions: []models.Condition{
			{Type: models.ConditionNot, Condition: &models.Condition{
				Type: models.ConditionDescriptionMatches, Pattern: "[bad",
			}},
		},
	}}
	requireKind(t, ValidateRule(&rule), ErrInvalidPattern)
}

func TestValidateRuleRequiresRefPayloads(t *testing.T) {
	rule := validRule()
	rule.Actions[0].FromAccount = models.AccountRef{Type: models.AccountRefByKey}
	requireKind(t, ValidateRule(&rule), ErrMissingField)

	rule = validRule()
	rule.Actions[0].ToAccount = models.AccountRef{Type: models.AccountRefByNumber}
	requireKind(t, ValidateRule(&rule), ErrMissingField)
}
