package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/only1thor/autobank/src/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testTransaction(amount, description, bookingStatus string) models.Transaction {
	return models.Transaction{
		ID:                 "tx-1",
		Description:        &description,
		CleanedDescription: &description,
		Amount:             decimal.RequireFromString(amount),
		TypeCode:           "VISA",
		BookingStatus:      bookingStatus,
		AccountKey:         "acc-1",
	}
}

func TestDescriptionMatches(t *testing.T) {
	tx := testTransaction("-149", "NETFLIX.COM payment", models.BookingStatusBooked)

	insensitive := models.Condition{Type: models.ConditionDescriptionMatches, Pattern: "netflix", CaseInsensitive: true}
	assert.True(t, Evaluate([]models.Condition{insensitive}, &tx))

	sensitive := models.Condition{Type: models.ConditionDescriptionMatches, Pattern: "netflix"}
	assert.False(t, Evaluate([]models.Condition{sensitive}, &tx))
}

func TestDescriptionFallsBackToRawDescription(t *testing.T) {
	raw := "NETFLIX.COM"
	tx := models.Transaction{ID: "tx-1", Description: &raw, Amount: decimal.Zero}
	cond := models.Condition{Type: models.ConditionDescriptionMatches, Pattern: "netflix", CaseInsensitive: true}
	assert.True(t, Evaluate([]models.Condition{cond}, &tx))

	tx.Description = nil
	assert.False(t, Evaluate([]models.Condition{cond}, &tx))
}

func TestAmountConditions(t *testing.T) {
	tx := testTransaction("-149", "Test", models.BookingStatusBooked)

	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionAmountLessThan, Value: dec("0")}}, &tx))
	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionAmountGreaterThan, Value: dec("-200")}}, &tx))
	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionAmountBetween, Min: dec("-200"), Max: dec("-100")}}, &tx))
	assert.False(t, Evaluate([]models.Condition{{Type: models.ConditionAmountBetween, Min: dec("-100"), Max: dec("0")}}, &tx))
	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionAmountEquals, Value: dec("-149")}}, &tx))
	assert.False(t, Evaluate([]models.Condition{{Type: models.ConditionAmountEquals, Value: dec("-149.01")}}, &tx))
	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionAmountEquals, Value: dec("-149.01"), Tolerance: dec("0.01")}}, &tx))
}

func TestIsSettled(t *testing.T) {
	booked := testTransaction("-100", "Test", models.BookingStatusBooked)
	pending := testTransaction("-100", "Test", "PENDING")

	cond := []models.Condition{{Type: models.ConditionIsSettled}}
	assert.True(t, Evaluate(cond, &booked))
	assert.False(t, Evaluate(cond, &pending))
}

func TestTransactionType(t *testing.T) {
	tx := testTransaction("-100", "Test", models.BookingStatusBooked)
	assert.True(t, Evaluate([]models.Condition{{Type: models.ConditionTransactionType, TypeCode: "VISA"}}, &tx))
	assert.False(t, Evaluate([]models.Condition{{Type: models.ConditionTransactionType, TypeCode: "TRANSFER"}}, &tx))
}

func TestLogicalOperators(t *testing.T) {
	tx := testTransaction("-149", "Netflix", models.BookingStatusBooked)

	and := models.Condition{Type: models.ConditionAnd, Conditions: []models.Condition{
		{Type: models.ConditionAmountLessThan, Value: dec("0")},
		{Type: models.ConditionIsSettled},
	}}
	assert.True(t, Evaluate([]models.Condition{and}, &tx))

	or := models.Condition{Type: models.ConditionOr, Conditions: []models.Condition{
		{Type: models.ConditionAmountGreaterThan, Value: dec("1000")},
		{Type: models.ConditionIsSettled},
	}}
	assert.True(t, Evaluate([]models.Condition{or}, &tx))

	not := models.Condition{Type: models.ConditionNot, Condition: &models.Condition{
		Type: models.ConditionAmountGreaterThan, Value: dec("0"),
	}}
	assert.True(t, Evaluate([]models.Condition{not}, &tx))
}

func TestTopLevelIsImplicitAnd(t *testing.T) {
	tx := testTransaction("-149", "Netflix", "PENDING")
	conds := []models.Condition{
		{Type: models.ConditionDescriptionMatches, Pattern: "netflix", CaseInsensitive: true},
		{Type: models.ConditionIsSettled},
	}
	assert.False(t, Evaluate(conds, &tx))

	tx.BookingStatus = models.BookingStatusBooked
	assert.True(t, Evaluate(conds, &tx))
}

func TestEmptyConditionsAlwaysMatch(t *testing.T) {
	tx := testTransaction("-149", "Anything", "PENDING")
	assert.True(t, Evaluate(nil, &tx))
}

func TestResolveAccountKey(t *testing.T) {
	tx := testTransaction("-149", "Test", models.BookingStatusBooked)

	key, err := ResolveAccountKey(models.AccountRef{Type: models.AccountRefByKey, Key: "acc-2"}, &tx)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", key)

	key, err = ResolveAccountKey(models.AccountRef{Type: models.AccountRefByNumber, Number: "12345678901"}, &tx)
	require.NoError(t, err)
	assert.Equal(t, "12345678901", key)

	key, err = ResolveAccountKey(models.AccountRef{Type: models.AccountRefTriggerAccount}, &tx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", key)

	_, err = ResolveAccountKey(models.AccountRef{Type: "bogus"}, &tx)
	require.Error(t, err)
}

func TestResolveAmount(t *testing.T) {
	tx := testTransaction("-149", "Test", models.BookingStatusBooked)

	fixed, err := ResolveAmount(models.AmountSpec{Type: models.AmountFixed, Value: dec("100")}, &tx)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(decimal.RequireFromString("100")))

	raw, err := ResolveAmount(models.AmountSpec{Type: models.AmountTransaction}, &tx)
	require.NoError(t, err)
	assert.True(t, raw.Equal(decimal.RequireFromString("-149")))

	abs, err := ResolveAmount(models.AmountSpec{Type: models.AmountTransactionAbs}, &tx)
	require.NoError(t, err)
	assert.True(t, abs.Equal(decimal.RequireFromString("149")))

	pct, err := ResolveAmount(models.AmountSpec{Type: models.AmountPercentage, OfTransaction: dec("10")}, &tx)
	require.NoError(t, err)
	assert.True(t, pct.Equal(decimal.RequireFromString("14.9")))
}

func TestResolveAmountAggregates(t *testing.T) {
	tx := testTransaction("-149", "Test", models.BookingStatusBooked)

	min, err := ResolveAmount(models.AmountSpec{Type: models.AmountMin, Specs: []models.AmountSpec{
		{Type: models.AmountFixed, Value: dec("100")},
		{Type: models.AmountTransactionAbs},
	}}, &tx)
	require.NoError(t, err)
	assert.True(t, min.Equal(decimal.RequireFromString("100")))

	max, err := ResolveAmount(models.AmountSpec{Type: models.AmountMax, Specs: []models.AmountSpec{
		{Type: models.AmountFixed, Value: dec("100")},
		{Type: models.AmountTransactionAbs},
	}}, &tx)
	require.NoError(t, err)
	assert.True(t, max.Equal(decimal.RequireFromString("149")))

	_, err = ResolveAmount(models.AmountSpec{Type: models.AmountMin}, &tx)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrEmptyAggregate, ruleErr.Kind)
}
