package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

// Service orchestrates voucher use cases.
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

func (s *Service) Create(ctx context.Context, input ports.CreateVoucherInput) (*domain.Voucher, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	voucher := &domain.Voucher{
		ID:              s.newID(),
		Code:            domain.NormalizeCode(input.Code),
		Discount:        input.Discount,
		Status:          status,
		Description:     strings.TrimSpace(input.Description),
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		VoucherPrice:    input.VoucherPrice,
		ApplicablePrice: input.ApplicablePrice,
	}
	if err := voucher.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureCodeFree(ctx, voucher.Code, ""); err != nil {
		return nil, err
	}
	now := s.now()
	voucher.CreatedAt = now
	voucher.UpdatedAt = now
	return s.repo.Save(ctx, voucher)
}

func (s *Service) Update(ctx context.Context, input ports.UpdateVoucherInput) (*domain.Voucher, error) {
	voucher, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	if input.Code != nil {
		voucher.Code = domain.NormalizeCode(*input.Code)
	}
	if input.Discount != nil {
		voucher.Discount = *input.Discount
	}
	if input.Status != nil {
		status, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		voucher.Status = status
	}
	if input.Description != nil {
		voucher.Description = strings.TrimSpace(*input.Description)
	}
	if input.StartDate != nil {
		voucher.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		voucher.EndDate = *input.EndDate
	}
	if input.VoucherPrice != nil {
		voucher.VoucherPrice = *input.VoucherPrice
	}
	if input.ApplicablePrice != nil {
		voucher.ApplicablePrice = *input.ApplicablePrice
	}
	if err := voucher.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureCodeFree(ctx, voucher.Code, voucher.ID); err != nil {
		return nil, err
	}
	voucher.UpdatedAt = s.now()
	return s.repo.Save(ctx, voucher)
}

// Delete moves the voucher to the trash; it can no longer be quoted.
func (s *Service) Delete(ctx context.Context, id string) error {
	voucher, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	voucher.Deleted = true
	voucher.UpdatedAt = s.now()
	_, err = s.repo.Save(ctx, voucher)
	return err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Voucher, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.Voucher, error) {
	query.Q = strings.TrimSpace(query.Q)
	return s.repo.List(ctx, query)
}

// Quote prices a voucher code against an order subtotal.
func (s *Service) Quote(ctx context.Context, code string, subtotal int64) (*ports.Quote, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, mapError(domain.ErrEmptyCode)
	}
	if subtotal < 0 {
		return nil, fmt.Errorf("%w: subtotal cannot be negative", ErrInvalidInput)
	}
	voucher, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	discount, err := voucher.Quote(subtotal, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.Quote{
		Code:     voucher.Code,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}, nil
}

func (s *Service) ensureCodeFree(ctx context.Context, code, ownerID string) error {
	existing, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != ownerID {
		return ports.ErrDuplicateCode
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
