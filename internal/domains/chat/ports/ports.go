package ports

import (
	"context"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/domain"
)

// HistoryLimit is how many messages a room replays on join.
const HistoryLimit = 50

// Repository persists chat messages.
type Repository interface {
	Save(ctx context.Context, msg *domain.Message) error
	// History returns the newest limit messages of a room in chronological order.
	History(ctx context.Context, roomID string, limit int) ([]*domain.Message, error)
}

type SendInput struct {
	RoomID   string
	SenderID string
	Content  string
}

// Service exposes chat use cases to the socket relay and REST handlers.
type Service interface {
	Send(ctx context.Context, input SendInput) (*domain.Message, error)
	History(ctx context.Context, roomID string) ([]*domain.Message, error)
}
