package ports

import (
	"context"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
)

type CreateVoucherInput struct {
	Code            string
	Discount        int
	Status          string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	VoucherPrice    int64
	ApplicablePrice int64
}

// UpdateVoucherInput is a partial update; nil fields are left untouched.
type UpdateVoucherInput struct {
	ID              string
	Code            *string
	Discount        *int
	Status          *string
	Description     *string
	StartDate       *time.Time
	EndDate         *time.Time
	VoucherPrice    *int64
	ApplicablePrice *int64
}

// Quote is the result of pricing a voucher against a subtotal.
type Quote struct {
	Code     string
	Subtotal int64
	Discount int64
	Total    int64
}

// Service exposes voucher use cases to adapters.
type Service interface {
	Create(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error)
	Update(ctx context.Context, input UpdateVoucherInput) (*domain.Voucher, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Voucher, error)
	List(ctx context.Context, query ListQuery) ([]*domain.Voucher, error)
	Quote(ctx context.Context, code string, subtotal int64) (*Quote, error)
}
