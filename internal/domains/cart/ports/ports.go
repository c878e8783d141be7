package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
)

// ErrProductUnavailable is returned when a product cannot be put in a cart.
var ErrProductUnavailable = errors.New("product is not available")

// Repository stores one cart per user. Get returns an empty cart for unknown users.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// Product is the catalog data shown next to a cart line.
type Product struct {
	ID    string
	Name  string
	Image string
	Price int64
}

// ProductLookup resolves current catalog data.
type ProductLookup interface {
	LookupProduct(ctx context.Context, id string) (*Product, error)
}

// Line is a cart item priced at read time. Unavailable lines carry no price.
type Line struct {
	domain.Item
	Name      string
	Image     string
	Price     int64
	LineTotal int64
	Available bool
}

// View is the cart as shown to the customer.
type View struct {
	UserID    string
	Lines     []Line
	Subtotal  int64
	Count     int
	UpdatedAt time.Time
}

type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

type UpdateQuantityInput struct {
	UserID    string
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// Service exposes cart use cases to adapters.
type Service interface {
	Add(ctx context.Context, input AddItemInput) (*View, error)
	Get(ctx context.Context, userID string) (*View, error)
	UpdateQuantity(ctx context.Context, input UpdateQuantityInput) (*View, error)
	RemoveItem(ctx context.Context, userID, productID, size, color string) (*View, error)
	Clear(ctx context.Context, userID string) error
}
