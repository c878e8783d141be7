package ports

import (
	"context"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// CreateProductInput carries the fields accepted when a product is added.
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Category    string
	Images      []domain.Image
	Sizes       []string
	Colors      []string
	Status      string
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	ID          string
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Images      *[]domain.Image
	Sizes       *[]string
	Colors      *[]string
	Status      *string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string, deleted bool) (*domain.Product, error)
	SoftDeleteMany(ctx context.Context, ids []string, deleted bool) (int64, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.Product], error)
}
