// Package catalog adapts the catalog context to the cart ProductLookup port.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
	catalogports "github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
)

var _ ports.ProductLookup = (*Lookup)(nil)

type Lookup struct {
	catalog catalogports.Service
}

func NewLookup(catalog catalogports.Service) *Lookup {
	return &Lookup{catalog: catalog}
}

func (l *Lookup) LookupProduct(ctx context.Context, id string) (*ports.Product, error) {
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
	return &ports.Product{ID: product.ID, Name: product.Name, Image: product.Thumbnail(), Price: product.Price}, nil
}
