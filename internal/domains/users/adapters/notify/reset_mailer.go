// Package notify delivers account e-mails.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
)

var _ ports.ResetMailer = (*ResetMailer)(nil)

const resetSubject = "Reset your password"

// ResetMailer sends password reset links through the configured mail sender.
type ResetMailer struct {
	sender mail.Sender
}

func NewResetMailer(sender mail.Sender) *ResetMailer {
	return &ResetMailer{sender: sender}
}

func (m *ResetMailer) SendPasswordReset(ctx context.Context, user *domain.User, link string, expiresAt time.Time) error {
	if m == nil || m.sender == nil {
		return fmt.Errorf("reset mailer not configured")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return m.sender.Send(ctx, mail.Message{
		To:      []string{user.Email},
		Subject: resetSubject,
		Body:    renderReset(user, link, expiresAt),
	})
}

func renderReset(user *domain.User, link string, expiresAt time.Time) string {
	name := strings.TrimSpace(user.FullName)
	if name == "" {
		name = user.Email
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	b.WriteString("We received a request to reset your password. Open the link below to choose a new one:\n\n")
	fmt.Fprintf(&b, "%s\n\n", link)
	fmt.Fprintf(&b, "The link can be used once and expires at %s UTC.\n", expiresAt.UTC().Format("2006-01-02 15:04"))
	b.WriteString("If you did not ask for this, you can ignore this e-mail.\n")
	return b.String()
}
