package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// Service orchestrates order use cases.
type Service struct {
	repo        ports.Repository
	products    ports.ProductLookup
	vouchers    ports.VoucherQuoter
	notifier    ports.Notifier
	idempotency ports.IdempotencyStore
	now         func() time.Time
	newID       func() string
	replayWait  time.Duration
	replayPoll  time.Duration
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithVoucherQuoter enables voucher codes at checkout.
func WithVoucherQuoter(q ports.VoucherQuoter) ServiceOption {
	return func(s *Service) { s.vouchers = q }
}

// WithNotifier enables order confirmation messages.
func WithNotifier(n ports.Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithIdempotencyStore enables Idempotency-Key handling.
func WithIdempotencyStore(store ports.IdempotencyStore) ServiceOption {
	return func(s *Service) { s.idempotency = store }
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
		repo:       repo,
		products:   products,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		replayWait: 10 * time.Second,
		replayPoll: 25 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder prices the lines from the catalog, applies the voucher and stores a pending order.
// With an idempotency key the key is reserved first, so concurrent retries wait for and
// replay the order of the request that holds it.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.placeOrder(ctx, input)
	}
	fingerprint, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	for {
		record, reserved, err := s.idempotency.Reserve(ctx, key, fingerprint)
		if err != nil {
			return nil, err
		}
		if reserved {
			break
		}
		order, err := s.awaitReplay(ctx, key, fingerprint, record)
		if errors.Is(err, errReservationReleased) {
			continue
		}
		return order, err
	}

	order, err := s.placeOrder(ctx, input)
	if err != nil {
		if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			return nil, errors.Join(err, releaseErr)
		}
		return nil, err
	}
	if err := s.idempotency.Complete(ctx, key, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

var errReservationReleased = errors.New("idempotency reservation released")

// awaitReplay polls a held key until its placement completes, is released, or the wait runs out.
func (s *Service) awaitReplay(ctx context.Context, key, fingerprint string, record *ports.IdempotencyRecord) (*domain.Order, error) {
	deadline := time.NewTimer(s.replayWait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.replayPoll)
	defer ticker.Stop()
	for {
		if record == nil {
			return nil, errReservationReleased
		}
		if record.RequestHash != fingerprint {
			return nil, ports.ErrIdempotencyConflict
		}
		if !record.Pending() {
			return s.repo.GetByID(ctx, record.OrderID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ports.ErrIdempotencyPending
		case <-ticker.C:
		}
		next, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		record = next
	}
}

func (s *Service) placeOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	shipping := domain.Shipping{
		Name:    strings.TrimSpace(input.Shipping.Name),
		Phone:   strings.TrimSpace(input.Shipping.Phone),
		Address: strings.TrimSpace(input.Shipping.Address),
		Email:   strings.ToLower(strings.TrimSpace(input.Shipping.Email)),
	}
	order, err := domain.NewOrder(s.newID(), input.UserID, items, shipping, method, input.PriceShipping, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	order.Note = strings.TrimSpace(input.Note)

	if code := strings.ToUpper(strings.TrimSpace(input.VoucherCode)); code != "" {
		if s.vouchers == nil {
			return nil, mapError(fmt.Errorf("%w: vouchers are not enabled", ports.ErrVoucherRejected))
		}
		discount, err := s.vouchers.QuoteDiscount(ctx, code, order.Subtotal)
		if err != nil {
			return nil, mapError(err)
		}
		if err := order.ApplyDiscount(code, discount); err != nil {
			return nil, mapError(err)
		}
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) priceItems(ctx context.Context, inputs []ports.ItemInput) ([]domain.Item, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoItems
	}
	if s.products == nil {
		return nil, errors.New("product lookup not configured")
	}
	items := make([]domain.Item, 0, len(inputs))
	for _, in := range inputs {
		id := strings.TrimSpace(in.ProductID)
		if id == "" {
			return nil, domain.ErrMissingProduct
		}
		snapshot, err := s.products.LookupProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.Item{
			ProductID: snapshot.ID,
			Name:      snapshot.Name,
			Image:     snapshot.Image,
			Quantity:  in.Quantity,
			Size:      strings.TrimSpace(in.Size),
			Color:     strings.TrimSpace(in.Color),
			Price:     snapshot.Price,
		})
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Order], error) {
	query.Page = query.Page.Normalize()
	query.Q = strings.TrimSpace(query.Q)
	return s.repo.List(ctx, query)
}

// UpdateStatus moves an order along the status machine on behalf of staff.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string, reason string) (*domain.Order, error) {
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(next, reason, s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// Cancel cancels an order. Customers may only cancel their own pending orders.
func (s *Service) Cancel(ctx context.Context, input ports.CancelOrderInput) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	if !input.Actor.Staff {
		if order.UserID == "" || order.UserID != input.Actor.UserID {
			return nil, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
		}
		if order.Status != domain.StatusPending {
			return nil, fmt.Errorf("%w: only pending orders can be cancelled by the customer", ErrForbidden)
		}
	}
	if err := order.TransitionTo(domain.StatusCancelled, input.Reason, s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// MarkPaid records a confirmed online payment.
func (s *Service) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := order.MarkPaid(paidAt); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// SendConfirmation notifies the customer about a stored order. It is a no-op without a notifier.
func (s *Service) SendConfirmation(ctx context.Context, id string) error {
	if s.notifier == nil {
		return nil
	}
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return s.notifier.OrderPlaced(ctx, order)
}

var _ ports.Service = (*Service)(nil)
