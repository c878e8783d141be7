package ports

import (
	"context"
	"errors"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SortFields maps public sort keys to columns.
var SortFields = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"fullName":  "full_name",
}

// DefaultSort lists newest accounts first.
var DefaultSort = pagination.Sort{Field: "created_at", Desc: true}

// ListQuery filters the admin user list.
type ListQuery struct {
	Page   pagination.Query
	Q      string
	Role   *domain.Role
	Status *domain.Status
}

type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[*domain.User], error)
}
