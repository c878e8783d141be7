//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
	"github.com/Apurer/flower-shop-api/internal/platform/postgres/postgrestest"
)

func TestCartPostgresRepository(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()
	now := time.Now().UTC()

	empty, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	cart, _ := domain.New("u-1", now)
	require.NoError(t, cart.Add(domain.Item{ProductID: "p-2", Quantity: 1}, now))
	require.NoError(t, cart.Add(domain.Item{ProductID: "p-1", Quantity: 3, Size: "M", Color: "red"}, now))
	require.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "p-2", loaded.Items[0].ProductID)
	assert.Equal(t, domain.Item{ProductID: "p-1", Quantity: 3, Size: "M", Color: "red"}, loaded.Items[1])

	require.NoError(t, loaded.Remove("p-2", "", "", now))
	require.NoError(t, repo.Save(ctx, loaded))
	again, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, again.Items, 1)

	require.NoError(t, repo.Delete(ctx, "u-1"))
	cleared, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, cleared.Empty())
}
