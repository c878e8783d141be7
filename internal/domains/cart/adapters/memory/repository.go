package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps carts in process memory.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func (r *Repository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cart, ok := r.carts[userID]; ok {
		return cart.Clone(), nil
	}
	return domain.New(userID, time.Now().UTC())
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) error {
	if cart == nil {
		return errors.New("cart is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cart.Clone()
	return nil
}

func (r *Repository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
