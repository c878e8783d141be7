// Package catalog adapts the catalog context to the orders ProductLookup port.
package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

var _ ports.ProductLookup = (*Lookup)(nil)

// Lookup reads current product data from the catalog service.
type Lookup struct {
	catalog catalogports.Service
}

func NewLookup(catalog catalogports.Service) *Lookup {
	return &Lookup{catalog: catalog}
}

// LookupProduct returns the product snapshot, or ErrProductUnavailable when it cannot be sold.
func (l *Lookup) LookupProduct(ctx context.Context, id string) (*ports.ProductSnapshot, error) {
	if l == nil || l.catalog == nil {
		return nil, errors.New("catalog lookup not configured")
	}
	product, err := l.catalog.Get(ctx, id)
	if errors.Is(err, catalogports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ports.ErrProductUnavailable, id)
	}
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: %s", ports.ErrProductUnavailable, id)
	}
	return &ports.ProductSnapshot{
		ID:    product.ID,
		Name:  product.Name,
		Image: product.Thumbnail(),
		Price: product.Price,
	}, nil
}
