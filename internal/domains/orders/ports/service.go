package ports

import (
	"context"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// ItemInput is an order line as submitted; the price is resolved from the catalog.
type ItemInput struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// PlaceOrderInput is the checkout command.
type PlaceOrderInput struct {
	IdempotencyKey string
	UserID         string
	Items          []ItemInput
	Shipping       domain.Shipping
	PaymentMethod  string
	PriceShipping  int64
	VoucherCode    string
	Note           string
}

// Actor is the authenticated caller of a state change.
type Actor struct {
	UserID string
	Staff  bool
}

// CancelOrderInput cancels an order with a mandatory reason.
type CancelOrderInput struct {
	ID     string
	Reason string
	Actor  Actor
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.Order], error)
	UpdateStatus(ctx context.Context, id string, status string, reason string) (*domain.Order, error)
	Cancel(ctx context.Context, input CancelOrderInput) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Order, error)
	SendConfirmation(ctx context.Context, id string) error
}
