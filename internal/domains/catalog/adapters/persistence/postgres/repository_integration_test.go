//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/postgres/postgrestest"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

func newProduct(t *testing.T, name string, price int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(uuid.NewString(), name, price, []domain.Image{{URL: "https://cdn.example/" + name + ".jpg"}})
	require.NoError(t, err)
	p.Sizes = []string{"S", "M"}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return p
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()

	product := newProduct(t, "rose", 150000)
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, product.ID, saved.ID)
	assert.Equal(t, []string{"S", "M"}, saved.Sizes)
	require.Len(t, saved.Images, 1)

	saved.Price = 175000
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, int64(175000), updated.Price)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersAndPages(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()

	var ids []string
	for i, name := range []string{"rose", "tulip", "lily"} {
		p := newProduct(t, name, int64(100000*(i+1)))
		_, err := repo.Save(ctx, p)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	touched, err := repo.SetDeleted(ctx, ids[:1], true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	notDeleted := false
	page, err := repo.List(ctx, ports.ListQuery{Deleted: &notDeleted, Page: pagination.Query{Limit: 1, Sort: "price"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "tulip", page.Items[0].Name)

	page, err = repo.List(ctx, ports.ListQuery{Q: "LIL"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(postgrestest.Start(t))
	ctx := context.Background()

	p := newProduct(t, "orchid", 99000)
	_, err := repo.Save(ctx, p)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ports.ErrNotFound)
}
