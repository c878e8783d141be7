package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo ports.Repository) *Service {
	return &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	product, err := domain.NewProduct(s.newID(), input.Name, input.Price, input.Images)
	if err != nil {
		return nil, mapError(err)
	}
	product.Description = strings.TrimSpace(input.Description)
	product.Category = strings.TrimSpace(input.Category)
	product.Sizes = cleanList(input.Sizes)
	product.Colors = cleanList(input.Colors)
	product.Status = status
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	return s.repo.Save(ctx, product)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Sizes != nil {
		product.Sizes = cleanList(*input.Sizes)
	}
	if input.Colors != nil {
		product.Colors = cleanList(*input.Colors)
	}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		product.Status = status
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	product.UpdatedAt = s.now()
	return s.repo.Save(ctx, product)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// SoftDelete toggles the deleted flag without removing the row.
func (s *Service) SoftDelete(ctx context.Context, id string, deleted bool) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	product.Deleted = deleted
	product.UpdatedAt = s.now()
	return s.repo.Save(ctx, product)
}

func (s *Service) SoftDeleteMany(ctx context.Context, ids []string, deleted bool) (int64, error) {
	cleaned := cleanList(ids)
	if len(cleaned) == 0 {
		return 0, fmt.Errorf("%w: at least one product id is required", ErrInvalidInput)
	}
	return s.repo.SetDeleted(ctx, cleaned, deleted)
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Product], error) {
	query.Page = query.Page.Normalize()
	query.Q = strings.TrimSpace(query.Q)
	return s.repo.List(ctx, query)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var _ ports.Service = (*Service)(nil)
