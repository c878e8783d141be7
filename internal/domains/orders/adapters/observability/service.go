package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", input.UserID),
		attribute.Int("order.lines", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("user.id", input.UserID))
	}
	s.metrics.recordPlaced(ctx, result)
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.Int64("order.total", result.Total))
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID),
		slog.String("user.id", result.UserID),
		slog.Int64("order.total", result.Total),
		slog.String("order.payment_method", string(result.PaymentMethod)),
	)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.List",
		trace.WithAttributes(attribute.Int("page", query.Page.Page), attribute.String("user.id", query.UserID)))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("order.total_docs", result.Total))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string, reason string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", status)))
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, id, status, reason)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id), slog.String("status", status))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, input ports.CancelOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Cancel", trace.WithAttributes(
		attribute.String("order.id", input.ID),
		attribute.Bool("actor.staff", input.Actor.Staff),
	))
	defer span.End()

	result, err := s.inner.Cancel(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.ID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", input.ID), slog.String("actor", input.Actor.UserID))
	return result, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.MarkPaid", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.MarkPaid(ctx, id, paidAt)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark order paid", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order paid", slog.String("order.id", id), slog.Int64("order.total", result.Total))
	return result, nil
}

func (s *Service) SendConfirmation(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.SendConfirmation", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := s.inner.SendConfirmation(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to send order confirmation", slog.String("order.id", id))
	}
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	placed      metric.Int64Counter
	revenue     metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Orders placed"))
	revenue, _ := m.Int64Counter("orders.service.placed_vnd", metric.WithDescription("Order totals placed"), metric.WithUnit("VND"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Order status transitions"))
	return serviceMetrics{placed: placed, revenue: revenue, transitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *domain.Order) {
	attrs := metric.WithAttributes(attribute.String("payment_method", string(order.PaymentMethod)))
	if m.placed != nil {
		m.placed.Add(ctx, 1, attrs)
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, order.Total, attrs)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

var _ ports.Service = (*Service)(nil)
