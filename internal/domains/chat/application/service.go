package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

// ErrInvalidInput signals a message violated a domain invariant.
var ErrInvalidInput = errors.New("invalid chat input")

type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() string
}

type ServiceOption func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Send(ctx context.Context, input ports.SendInput) (*domain.Message, error) {
	msg, err := domain.NewMessage(s.newID(), input.RoomID, input.SenderID, input.Content, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) History(ctx context.Context, roomID string) ([]*domain.Message, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrMissingRoom)
	}
	return s.repo.History(ctx, roomID, ports.HistoryLimit)
}

var _ ports.Service = (*Service)(nil)
