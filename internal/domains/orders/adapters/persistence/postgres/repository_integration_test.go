//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/postgres/postgrestest"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

func newOrder(t *testing.T, userID string) *domain.Order {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	order, err := domain.NewOrder(uuid.NewString(), userID,
		[]domain.Item{{ProductID: uuid.NewString(), Name: "Red Rose Bouquet", Quantity: 2, Price: 350000, Size: "M"}},
		domain.Shipping{Name: "Lan", Phone: "0901234567", Address: "12 Le Loi"},
		domain.PaymentVNPay, 30000, now)
	require.NoError(t, err)
	return order
}

func TestRepository_RoundTrip(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t, uuid.NewString())
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Red Rose Bouquet", loaded.Items[0].Name)
	assert.Equal(t, int64(730000), loaded.Total)
	assert.Equal(t, "12 Le Loi", loaded.Shipping.Address)

	paidAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, loaded.MarkPaid(paidAt))
	_, err = repo.Save(ctx, loaded)
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Paid)
	require.NotNil(t, reloaded.PaidAt)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListByUserAndStatus(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()
	customer := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, newOrder(t, customer))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, newOrder(t, uuid.NewString()))
	require.NoError(t, err)

	page, err := repo.List(ctx, ports.ListQuery{UserID: customer, Page: pagination.Query{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	pending := domain.StatusPending
	page, err = repo.List(ctx, ports.ListQuery{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
}

func TestIdempotencyStore_FirstReservationWins(t *testing.T) {
	store := NewIdempotencyStore(postgrestest.Start(t))
	ctx := context.Background()

	first, reserved, err := store.Reserve(ctx, "k-1", "h-1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.True(t, first.Pending())

	again, reserved, err := store.Reserve(ctx, "k-1", "h-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.True(t, again.Pending())

	require.NoError(t, store.Complete(ctx, "k-1", "o-1"))
	assert.Error(t, store.Complete(ctx, "k-1", "o-2"))

	again, reserved, err = store.Reserve(ctx, "k-1", "h-1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "o-1", again.OrderID)

	_, _, err = store.Reserve(ctx, "k-1", "h-2")
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdempotencyStore_ReleaseDropsOnlyPendingKeys(t *testing.T) {
	store := NewIdempotencyStore(postgrestest.Start(t))
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "k-pending", "h")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k-pending"))
	_, reserved, err := store.Reserve(ctx, "k-pending", "h")
	require.NoError(t, err)
	assert.True(t, reserved)

	_, _, err = store.Reserve(ctx, "k-done", "h")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "k-done", "o-1"))
	require.NoError(t, store.Release(ctx, "k-done"))
	record, err := store.Get(ctx, "k-done")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "o-1", record.OrderID)
}
