package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// Service exposes account use cases.
type Service struct {
	repo     ports.Repository
	tokens   ports.TokenIssuer
	resets   ports.ResetTokenStore
	mailer   ports.ResetMailer
	resetURL string
	now      func() time.Time
	newID    func() string
}

type ServiceOption func(*Service)

// WithPasswordReset enables the forgot-password flow. Links point at resetURL?token=...
func WithPasswordReset(store ports.ResetTokenStore, mailer ports.ResetMailer, resetURL string) ServiceOption {
	return func(s *Service) {
		s.resets = store
		s.mailer = mailer
		s.resetURL = resetURL
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return nil, mapError(domain.ErrPasswordMismatch)
	}
	user, err := domain.NewUser(s.newID(), input.Email, input.Password, input.FullName, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	user.UpdateProfile(user.FullName, input.Phone, input.Address, "")
	if err := s.ensureEmailFree(ctx, user.Email); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return mapError(ports.ErrDuplicateEmail)
	case errors.Is(err, ports.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Login verifies credentials and issues an access token. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if !user.Active() {
		return nil, ErrAccountInactive
	}
	token, expires, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: expires, User: user}, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	fullName, phone, address, avatar := user.FullName, user.Phone, user.Address, user.Avatar
	if input.FullName != nil {
		fullName = *input.FullName
	}
	if input.Phone != nil {
		phone = *input.Phone
	}
	if input.Address != nil {
		address = *input.Address
	}
	if input.Avatar != nil {
		avatar = *input.Avatar
	}
	user.UpdateProfile(fullName, phone, address, avatar)
	user.UpdatedAt = s.now()
	return s.repo.Save(ctx, user)
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.User], error) {
	query.Page = query.Page.Normalize()
	query.Q = strings.TrimSpace(query.Q)
	return s.repo.List(ctx, query)
}

// UpdateAccount lets an admin change role or status.
func (s *Service) UpdateAccount(ctx context.Context, input ports.UpdateAccountInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		user.Status = status
	}
	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, mapError(err)
		}
		user.Role = role
	}
	user.UpdatedAt = s.now()
	return s.repo.Save(ctx, user)
}

// SendResetEmail mails a single-use reset link. Unknown addresses succeed silently.
func (s *Service) SendResetEmail(ctx context.Context, email string) error {
	if s.resets == nil || s.mailer == nil {
		return errors.New("password reset not configured")
	}
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	tokenID := s.newID()
	raw, expires, err := s.tokens.IssueReset(user.ID, tokenID)
	if err != nil {
		return err
	}
	if err := s.resets.Save(ctx, domain.ResetToken{ID: tokenID, UserID: user.ID, ExpiresAt: expires, CreatedAt: s.now()}); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user, s.resetLink(raw), expires)
}

func (s *Service) resetLink(token string) string {
	base := s.resetURL
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

// ResetPassword consumes a reset token and stores the new password.
func (s *Service) ResetPassword(ctx context.Context, input ports.ResetPasswordInput) error {
	if s.resets == nil {
		return errors.New("password reset not configured")
	}
	if input.Password != input.ConfirmPassword {
		return mapError(domain.ErrPasswordMismatch)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return mapError(err)
	}
	userID, tokenID, err := s.tokens.ParseReset(input.Token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResetToken, err)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	// Hash before consuming so a failure leaves the link usable.
	if err := user.SetPassword(input.Password); err != nil {
		return mapError(err)
	}
	stored, err := s.resets.Consume(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ports.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if stored.UserID != userID || stored.Expired(s.now()) {
		return ErrInvalidResetToken
	}
	user.UpdatedAt = s.now()
	_, err = s.repo.Save(ctx, user)
	return err
}

// EnsureAdmin creates an admin account or promotes an existing one and resets its password.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case errors.Is(err, ports.ErrNotFound):
		user, err = domain.NewUser(s.newID(), email, password, "Administrator", s.now())
		if err != nil {
			return nil, mapError(err)
		}
	case err != nil:
		return nil, err
	default:
		if err := user.SetPassword(password); err != nil {
			return nil, mapError(err)
		}
	}
	user.Role = domain.RoleAdmin
	user.Status = domain.StatusActive
	user.UpdatedAt = s.now()
	return s.repo.Save(ctx, user)
}

var _ ports.Service = (*Service)(nil)
