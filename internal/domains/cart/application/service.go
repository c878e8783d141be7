package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/money"
)

// Service implements cart use cases on top of a repository and the catalog.
type Service struct {
	repo     ports.Repository
	products ports.ProductLookup
	logger   *slog.Logger
	now      func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
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

func NewService(repo ports.Repository, products ports.ProductLookup, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		products: products,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add checks the product can be sold and merges it into the cart.
func (s *Service) Add(ctx context.Context, input ports.AddItemInput) (*ports.View, error) {
	cart, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, mapError(domain.ErrMissingProduct)
	}
	if _, err := s.products.LookupProduct(ctx, productID); err != nil {
		return nil, mapError(err)
	}
	item := domain.Item{ProductID: productID, Quantity: input.Quantity, Size: input.Size, Color: input.Color}
	if err := cart.Add(item, s.now()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart), nil
}

func (s *Service) Get(ctx context.Context, userID string) (*ports.View, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart), nil
}

func (s *Service) UpdateQuantity(ctx context.Context, input ports.UpdateQuantityInput) (*ports.View, error) {
	cart, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(strings.TrimSpace(input.ProductID), strings.TrimSpace(input.Size), strings.TrimSpace(input.Color), input.Quantity, s.now()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart), nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID, size, color string) (*ports.View, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.Remove(strings.TrimSpace(productID), strings.TrimSpace(size), strings.TrimSpace(color), s.now()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart), nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return mapError(domain.ErrMissingUser)
	}
	return s.repo.Delete(ctx, userID)
}

func (s *Service) load(ctx context.Context, userID string) (*domain.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, mapError(domain.ErrMissingUser)
	}
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return domain.New(userID, s.now())
	}
	return cart, nil
}

// view prices every line against the catalog. Lines whose product disappeared stay
// visible but do not count towards the subtotal.
func (s *Service) view(ctx context.Context, cart *domain.Cart) *ports.View {
	view := &ports.View{UserID: cart.UserID, Lines: make([]ports.Line, 0, len(cart.Items)), UpdatedAt: cart.UpdatedAt}
	for _, item := range cart.Items {
		line := ports.Line{Item: item}
		product, err := s.products.LookupProduct(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Name = product.Name
			line.Image = product.Image
			line.Price = product.Price
			line.LineTotal = money.LineTotal(product.Price, item.Quantity)
			line.Available = true
			view.Subtotal += line.LineTotal
			view.Count += item.Quantity
		case errors.Is(err, ports.ErrProductUnavailable):
		default:
			s.logger.WarnContext(ctx, "cart product lookup failed",
				slog.String("user.id", cart.UserID),
				slog.String("product.id", item.ProductID),
				slog.String("error", err.Error()),
			)
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}

var _ ports.Service = (*Service)(nil)
