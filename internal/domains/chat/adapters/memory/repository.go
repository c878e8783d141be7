package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps messages per room in insertion order.
type Repository struct {
	mu    sync.RWMutex
	rooms map[string][]domain.Message
}

func NewRepository() *Repository {
	return &Repository{rooms: map[string][]domain.Message{}}
}

func (r *Repository) Save(_ context.Context, msg *domain.Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[msg.RoomID] = append(r.rooms[msg.RoomID], *msg)
	return nil
}

func (r *Repository) History(_ context.Context, roomID string, limit int) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.rooms[roomID]
	start := 0
	if limit > 0 && len(all) > limit {
		start = len(all) - limit
	}
	out := make([]*domain.Message, 0, len(all)-start)
	for i := start; i < len(all); i++ {
		m := all[i]
		out = append(out, &m)
	}
	return out, nil
}
