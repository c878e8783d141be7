package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
)

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestSendPasswordReset(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewResetMailer(sender)
	user := &domain.User{ID: "u-1", Email: "lan@example.com", FullName: "Lan"}
	expires := time.Date(2025, 3, 8, 9, 15, 0, 0, time.UTC)

	require.NoError(t, mailer.SendPasswordReset(context.Background(), user, "https://shop.example/reset?token=abc", expires))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"lan@example.com"}, msg.To)
	assert.Equal(t, resetSubject, msg.Subject)
	assert.Contains(t, msg.Body, "Hello Lan")
	assert.Contains(t, msg.Body, "https://shop.example/reset?token=abc")
	assert.Contains(t, msg.Body, "2025-03-08 09:15")
}

func TestSendPasswordResetPropagatesSenderError(t *testing.T) {
	mailer := NewResetMailer(&recordingSender{err: errors.New("relay down")})
	err := mailer.SendPasswordReset(context.Background(), &domain.User{Email: "a@b.co"}, "x", time.Now())
	require.Error(t, err)
}
