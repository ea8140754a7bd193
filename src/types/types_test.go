package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{TRANSACTION_PENDING, TRANSACTION_PROCESSING, true},
		{TRANSACTION_PENDING, TRANSACTION_COMPLETED, true},
		{TRANSACTION_PENDING, TRANSACTION_FAILED, true},
		{TRANSACTION_PENDING, TRANSACTION_REFUNDED, false},
		{TRANSACTION_PROCESSING, TRANSACTION_COMPLETED, true},
		{TRANSACTION_PROCESSING, TRANSACTION_FAILED, true},
		{TRANSACTION_PROCESSING, TRANSACTION_PENDING, false},
		{TRANSACTION_COMPLETED, TRANSACTION_REFUNDED, true},
		{TRANSACTION_COMPLETED, TRANSACTION_PENDING, false},
		{TRANSACTION_COMPLETED, TRANSACTION_FAILED, false},
		{TRANSACTION_FAILED, TRANSACTION_COMPLETED, false},
		{TRANSACTION_FAILED, TRANSACTION_REFUNDED, false},
		{TRANSACTION_REFUNDED, TRANSACTION_COMPLETED, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestJSONBScanAcceptsBytesAndStrings(t *testing.T) {
	var a JSONB
	assert.NoError(t, a.Scan([]byte(`{"booth_id":5}`)))
	assert.EqualValues(t, 5, a["booth_id"])

	var b JSONB
	assert.NoError(t, b.Scan(`{"event_id":9}`))
	assert.EqualValues(t, 9, b["event_id"])

	var c JSONB
	assert.Error(t, c.Scan(42))
}
