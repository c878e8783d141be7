package ports

import (
	"context"
	"errors"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("product not found")

// ListQuery filters the product listing. Nil pointers mean "any".
type ListQuery struct {
	Page    pagination.Query
	Q       string
	Status  *domain.Status
	Deleted *bool
}

// Repository persists products.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// SetDeleted flags the given products and reports how many were touched.
	SetDeleted(ctx context.Context, ids []string, deleted bool) (int64, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.Product], error)
}

// SortFields maps accepted sort keys to storage columns.
var SortFields = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
}

// DefaultSort lists newest products first.
var DefaultSort = pagination.Sort{Field: "created_at", Desc: true}
