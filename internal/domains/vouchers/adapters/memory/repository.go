package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory voucher persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	vouchers map[string]domain.Voucher
}

func NewRepository() *Repository {
	return &Repository{vouchers: map[string]domain.Voucher{}}
}

func (r *Repository) Save(_ context.Context, voucher *domain.Voucher) (*domain.Voucher, error) {
	if voucher == nil {
		return nil, errors.New("voucher is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.vouchers {
		if id != voucher.ID && existing.Code == voucher.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.vouchers[voucher.ID] = *voucher
	clone := *voucher
	return &clone, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	voucher, ok := r.vouchers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &voucher, nil
}

func (r *Repository) GetByCode(_ context.Context, code string) (*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, voucher := range r.vouchers {
		if voucher.Code == code {
			clone := voucher
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) ([]*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToUpper(query.Q)
	list := make([]*domain.Voucher, 0, len(r.vouchers))
	for _, voucher := range r.vouchers {
		if query.Status != nil && voucher.Status != *query.Status {
			continue
		}
		if query.Deleted != nil && voucher.Deleted != *query.Deleted {
			continue
		}
		if needle != "" && !strings.Contains(voucher.Code, needle) {
			continue
		}
		clone := voucher
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}
