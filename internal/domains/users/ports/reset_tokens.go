package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
)

// ErrResetTokenNotFound is returned when a reset token was never issued or already used.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenStore tracks issued password reset tokens so each is honoured once.
type ResetTokenStore interface {
	Save(ctx context.Context, token domain.ResetToken) error
	// Consume deletes the token and returns it.
	Consume(ctx context.Context, id string) (*domain.ResetToken, error)
	// PurgeExpired deletes tokens that expired before now and reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenIssuer signs access and reset tokens.
type TokenIssuer interface {
	IssueAccess(userID, role string) (string, time.Time, error)
	IssueReset(userID, tokenID string) (string, time.Time, error)
	ParseReset(raw string) (userID string, tokenID string, err error)
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, user *domain.User, link string, expiresAt time.Time) error
}
