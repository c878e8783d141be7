package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

type stubCatalog struct {
	products map[string]ports.Product
	failing  map[string]bool
}

func (s *stubCatalog) LookupProduct(_ context.Context, id string) (*ports.Product, error) {
	if s.failing[id] {
		return nil, errors.New("catalog down")
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrProductUnavailable, id)
	}
	return &p, nil
}

func newTestService() (*Service, *stubCatalog) {
	catalog := &stubCatalog{
		products: map[string]ports.Product{
			"rose":  {ID: "rose", Name: "Red Rose", Price: 250000, Image: "rose.jpg"},
			"tulip": {ID: "tulip", Name: "Tulip", Price: 120000},
		},
		failing: map[string]bool{},
	}
	now := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	return NewService(memory.NewRepository(), catalog, WithClock(func() time.Time { return now })), catalog
}

func TestAddEnrichesAndMerges(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "rose", Quantity: 2, Size: "M"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "rose", Quantity: 1, Size: "M"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "tulip", Quantity: 1})
	require.NoError(t, err)

	view, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Red Rose", view.Lines[0].Name)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, int64(750000), view.Lines[0].LineTotal)
	assert.Equal(t, int64(870000), view.Subtotal)
	assert.Equal(t, 4, view.Count)
}

func TestAddRejectsUnknownProductAndBadQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "orchid", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "rose", Quantity: 100})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Add(ctx, ports.AddItemInput{ProductID: "rose", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestVanishedProductStaysVisibleWithoutPrice(t *testing.T) {
	svc, catalog := newTestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "rose", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "tulip", Quantity: 1})
	require.NoError(t, err)

	delete(catalog.products, "rose")
	catalog.failing["tulip"] = true
	view, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.False(t, view.Lines[0].Available)
	assert.False(t, view.Lines[1].Available)
	assert.Zero(t, view.Subtotal)
}

func TestUpdateRemoveClear(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "rose", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(ctx, ports.AddItemInput{UserID: "u-1", ProductID: "tulip", Quantity: 1})
	require.NoError(t, err)

	view, err := svc.UpdateQuantity(ctx, ports.UpdateQuantityInput{UserID: "u-1", ProductID: "rose", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Lines[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, ports.UpdateQuantityInput{UserID: "u-1", ProductID: "orchid", Quantity: 1})
	require.ErrorIs(t, err, ErrNotFound)

	view, err = svc.RemoveItem(ctx, "u-1", "tulip", "", "")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)

	require.NoError(t, svc.Clear(ctx, "u-1"))
	view, err = svc.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
