package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order.Clone()
	return order.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) (pagination.Page[*domain.Order], error) {
	r.mu.RLock()
	needle := strings.ToLower(query.Q)
	matches := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if query.Status != nil && order.Status != *query.Status {
			continue
		}
		if query.UserID != "" && order.UserID != query.UserID {
			continue
		}
		if needle != "" && !matchesShipping(order.Shipping, needle) {
			continue
		}
		matches = append(matches, order.Clone())
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

func matchesShipping(s domain.Shipping, needle string) bool {
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(s.Phone, needle) ||
		strings.Contains(strings.ToLower(s.Email), needle)
}

func lessBy(field string, a, b *domain.Order) bool {
	switch field {
	case "total":
		return a.Total < b.Total
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
