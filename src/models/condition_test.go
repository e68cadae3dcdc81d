package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionWireFormat(t *testing.T) {
	payload := `{"type":"description_matches","pattern":"netflix","case_insensitive":true}`
	var cond Condition
	require.NoError(t, json.Unmarshal([]byte(payload), &cond))
	assert.Equal(t, ConditionDescriptionMatches, cond.Type)
	assert.Equal(t, "netflix", cond.Pattern)
	assert.True(t, cond.CaseInsensitive)

	out, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestActionWireFormat(t *testing.T) {
	payload := `{
		"type": "transfer",
		"from_account": {"type": "by_key", "key": "savings-1"},
		"to_account": {"type": "trigger_account"},
		"amount": {"type": "transaction_amount_abs"}
	}`
	var action Action
	require.NoError(t, json.Unmarshal([]byte(payload), &action))
	assert.Equal(t, ActionTransfer, action.Type)
	assert.Equal(t, AccountRefByKey, action.FromAccount.Type)
	assert.Equal(t, "savings-1", action.FromAccount.Key)
	assert.Equal(t, AccountRefTriggerAccount, action.ToAccount.Type)
	assert.Equal(t, AmountTransactionAbs, action.Amount.Type)

	out, err := json.Marshal(action)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestConditionTreeRoundTrip(t *testing.T) {
	payload := `{
		"type": "or",
		"conditions": [
			{"type": "amount_between", "min": -200, "max": -100},
			{"type": "not", "condition": {"type": "is_settled"}},
			{"type": "amount_equals", "value": -149, "tolerance": 0.01}
		]
	}`
	var cond Condition
	require.NoError(t, json.Unmarshal([]byte(payload), &cond))
	require.Len(t, cond.Conditions, 3)
	assert.Equal(t, ConditionNot, cond.Conditions[1].Type)
	require.NotNil(t, cond.Conditions[1].Condition)

	out, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestAmountSpecNestedRoundTrip(t *testing.T) {
	payload := `{
		"type": "min",
		"specs": [
			{"type": "fixed", "value": 500},
			{"type": "percentage", "of_transaction": 10}
		]
	}`
	var spec AmountSpec
	require.NoError(t, json.Unmarshal([]byte(payload), &spec))
	require.Len(t, spec.Specs, 2)

	out, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}
