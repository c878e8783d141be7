package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account store with a unique email index.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}, byEmail: map[string]string{}}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.byEmail[user.Email]; ok && owner != user.ID {
		return nil, ports.ErrDuplicateEmail
	}
	if previous, ok := r.users[user.ID]; ok && previous.Email != user.Email {
		delete(r.byEmail, previous.Email)
	}
	r.users[user.ID] = user.Clone()
	r.byEmail[user.Email] = user.ID
	return user.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.users[id].Clone(), nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) (pagination.Page[*domain.User], error) {
	r.mu.RLock()
	needle := strings.ToLower(query.Q)
	matches := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if query.Role != nil && user.Role != *query.Role {
			continue
		}
		if query.Status != nil && user.Status != *query.Status {
			continue
		}
		if needle != "" && !strings.Contains(user.Email, needle) && !strings.Contains(strings.ToLower(user.FullName), needle) {
			continue
		}
		matches = append(matches, user.Clone())
	}
	r.mu.RUnlock()

	order := pagination.ParseSort(query.Page.Sort, ports.SortFields, ports.DefaultSort)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if order.Desc {
			a, b = b, a
		}
		switch order.Field {
		case "email":
			return a.Email < b.Email
		case "full_name":
			return a.FullName < b.FullName
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return pagination.Slice(matches, query.Page), nil
}
