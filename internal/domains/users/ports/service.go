package ports

import (
	"context"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Phone           string
	Address         string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// UpdateProfileInput carries self-service changes; nil fields are left untouched.
type UpdateProfileInput struct {
	ID       string
	FullName *string
	Phone    *string
	Address  *string
	Avatar   *string
}

// UpdateAccountInput carries admin changes; nil fields are left untouched.
type UpdateAccountInput struct {
	ID     string
	Status *string
	Role   *string
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.User], error)
	UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.User, error)
	SendResetEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error)
}
