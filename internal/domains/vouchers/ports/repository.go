package ports

import (
	"context"
	"errors"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
)

var (
	ErrNotFound      = errors.New("voucher not found")
	ErrDuplicateCode = errors.New("voucher code already exists")
)

// ListQuery filters vouchers. Nil pointers mean "any".
type ListQuery struct {
	Q       string
	Status  *domain.Status
	Deleted *bool
}

// Repository persists vouchers; codes are unique.
type Repository interface {
	Save(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error)
	GetByID(ctx context.Context, id string) (*domain.Voucher, error)
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context, query ListQuery) ([]*domain.Voucher, error)
}
