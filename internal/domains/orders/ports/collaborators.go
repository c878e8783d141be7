package ports

import (
	"context"
	"errors"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
)

var (
	// ErrProductUnavailable is returned for unknown, inactive or trashed products.
	ErrProductUnavailable = errors.New("product is not available")
	// ErrVoucherRejected wraps the reason a voucher could not be applied.
	ErrVoucherRejected = errors.New("voucher rejected")
)

// ProductSnapshot is the catalog view needed to price an order line.
type ProductSnapshot struct {
	ID    string
	Name  string
	Image string
	Price int64
}

// ProductLookup resolves current catalog prices.
type ProductLookup interface {
	LookupProduct(ctx context.Context, id string) (*ProductSnapshot, error)
}

// VoucherQuoter prices a voucher code against a subtotal.
type VoucherQuoter interface {
	QuoteDiscount(ctx context.Context, code string, subtotal int64) (int64, error)
}

// Notifier tells the customer about their order.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}
