package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
)

var _ ports.ResetTokenStore = (*ResetTokenStore)(nil)

// ResetTokenStore is an in-memory ResetTokenStore implementation.
type ResetTokenStore struct {
	tokens sync.Map
}

func NewResetTokenStore() *ResetTokenStore {
	return &ResetTokenStore{}
}

func (s *ResetTokenStore) Save(_ context.Context, token domain.ResetToken) error {
	s.tokens.Store(token.ID, token)
	return nil
}

func (s *ResetTokenStore) Consume(_ context.Context, id string) (*domain.ResetToken, error) {
	value, ok := s.tokens.LoadAndDelete(id)
	if !ok {
		return nil, ports.ErrResetTokenNotFound
	}
	token := value.(domain.ResetToken)
	return &token, nil
}

func (s *ResetTokenStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.tokens.Range(func(key, value any) bool {
		if value.(domain.ResetToken).Expired(now) {
			if _, loaded := s.tokens.LoadAndDelete(key); loaded {
				purged++
			}
		}
		return true
	})
	return purged, nil
}
