package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product.Clone()
	return product.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) SetDeleted(_ context.Context, ids []string, deleted bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var touched int64
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			product.Deleted = deleted
			touched++
		}
	}
	return touched, nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) (pagination.Page[*domain.Product], error) {
	r.mu.RLock()
	needle := strings.ToLower(strings.TrimSpace(query.Q))
	matches := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if query.Status != nil && product.Status != *query.Status {
			continue
		}
		if query.Deleted != nil && product.Deleted != *query.Deleted {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(product.Name), needle) {
			continue
		}
		matches = append(matches, product.Clone())
	}
	r.mu.RUnlock()

	order := pagination.ParseSort(query.Page.Sort, ports.SortFields, ports.DefaultSort)
	sort.SliceStable(matches, func(i, j int) bool {
		if order.Desc {
			return lessBy(order.Field, matches[j], matches[i])
		}
		return lessBy(order.Field, matches[i], matches[j])
	})
	return pagination.Slice(matches, query.Page), nil
}

func lessBy(field string, a, b *domain.Product) bool {
	switch field {
	case "price":
		return a.Price < b.Price
	case "name":
		return a.Name < b.Name
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
