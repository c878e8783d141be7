package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

func TestNewTransaction(t *testing.T) {
	_, err := NewTransaction(" ", "o-1", 1000, "info", now)
	require.ErrorIs(t, err, ErrMissingTxnRef)

	_, err = NewTransaction("08160000", "o-1", 0, "info", now)
	require.ErrorIs(t, err, ErrInvalidAmount)

	txn, err := NewTransaction("08160000", "o-1", 180000, "info", now)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, txn.Status)
	assert.False(t, txn.Settled())
}

func TestSettle(t *testing.T) {
	txn, err := NewTransaction("08160000", "o-1", 180000, "info", now)
	require.NoError(t, err)

	require.ErrorIs(t, txn.Settle(1000, true, "00", "1", "", now), ErrAmountMismatch)
	assert.Equal(t, StatusPending, txn.Status)

	require.NoError(t, txn.Settle(180000, true, "00", "14422574", "NCB", now))
	assert.Equal(t, StatusPaid, txn.Status)
	require.NotNil(t, txn.PaidAt)
	assert.Equal(t, "NCB", txn.BankCode)

	require.ErrorIs(t, txn.Settle(180000, true, "00", "1", "", now), ErrAlreadySettled)
}

func TestSettle_Failure(t *testing.T) {
	txn, err := NewTransaction("08160000", "", 180000, "info", now)
	require.NoError(t, err)
	require.NoError(t, txn.Settle(180000, false, "24", "", "", now))
	assert.Equal(t, StatusFailed, txn.Status)
	assert.Nil(t, txn.PaidAt)
	assert.True(t, txn.Settled())
}
