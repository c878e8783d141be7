package ports

import (
	"context"
	"errors"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("order not found")

// ListQuery filters the order listing. Empty fields mean "any".
type ListQuery struct {
	Page   pagination.Query
	Status *domain.Status
	UserID string
	// Q matches the shipping name, phone or email.
	Q string
}

// Repository persists orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.Order], error)
}

// SortFields maps accepted sort keys to storage columns.
var SortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"total":     "total",
}

// DefaultSort lists the newest orders first.
var DefaultSort = pagination.Sort{Field: "created_at", Desc: true}
