//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/postgres/postgrestest"
)

func TestRepository_CreateSettleReload(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	txn, err := domain.NewTransaction("08160000", "", 180000, "Thanh toan don hang", now)
	require.NoError(t, err)
	_, err = repo.Create(ctx, txn)
	require.NoError(t, err)

	_, err = repo.Create(ctx, txn)
	require.ErrorIs(t, err, ports.ErrDuplicateTxnRef)

	require.NoError(t, txn.Settle(180000, true, "00", "14422574", "NCB", now))
	saved, err := repo.Settle(ctx, txn)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, saved.Status)
	require.NotNil(t, saved.PaidAt)

	_, err = repo.Settle(ctx, txn)
	require.ErrorIs(t, err, domain.ErrAlreadySettled)

	ghost, err := domain.NewTransaction("ghost", "", 1000, "x", now)
	require.NoError(t, err)
	_, err = repo.Settle(ctx, ghost)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.GetByTxnRef(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
