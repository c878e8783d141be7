package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

const tracerName = "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/observability/service"

// Service decorates the vouchers service with tracing, logging, and metrics.
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

// New wraps the core vouchers service.
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

func (s *Service) Create(ctx context.Context, input ports.CreateVoucherInput) (*domain.Voucher, error) {
	ctx, span := s.tracer.Start(ctx, "VouchersService.Create", trace.WithAttributes(
		attribute.String("voucher.code", input.Code),
		attribute.Int("voucher.discount", input.Discount),
	))
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create voucher", slog.String("voucher.code", input.Code))
	}
	span.SetAttributes(attribute.String("voucher.id", result.ID))
	s.logInfo(ctx, "voucher created", slog.String("voucher.id", result.ID), slog.String("voucher.code", result.Code))
	return result, nil
}

func (s *Service) Update(ctx context.Context, input ports.UpdateVoucherInput) (*domain.Voucher, error) {
	ctx, span := s.tracer.Start(ctx, "VouchersService.Update", trace.WithAttributes(attribute.String("voucher.id", input.ID)))
	defer span.End()

	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update voucher", slog.String("voucher.id", input.ID))
	}
	s.logInfo(ctx, "voucher updated", slog.String("voucher.id", result.ID), slog.String("voucher.status", string(result.Status)))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "VouchersService.Delete", trace.WithAttributes(attribute.String("voucher.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete voucher", slog.String("voucher.id", id))
	}
	s.logInfo(ctx, "voucher deleted", slog.String("voucher.id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Voucher, error) {
	ctx, span := s.tracer.Start(ctx, "VouchersService.Get", trace.WithAttributes(attribute.String("voucher.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load voucher", slog.String("voucher.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.Voucher, error) {
	ctx, span := s.tracer.Start(ctx, "VouchersService.List", trace.WithAttributes(attribute.String("query", query.Q)))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list vouchers")
	}
	span.SetAttributes(attribute.Int("voucher.count", len(result)))
	return result, nil
}

// Quote records accepted and rejected quotes; a rejection is a normal outcome, not a span error.
func (s *Service) Quote(ctx context.Context, code string, subtotal int64) (*ports.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "VouchersService.Quote", trace.WithAttributes(
		attribute.String("voucher.code", code),
		attribute.Int64("order.subtotal", subtotal),
	))
	defer span.End()

	result, err := s.inner.Quote(ctx, code, subtotal)
	if err != nil {
		s.metrics.recordQuote(ctx, false, 0)
		span.SetAttributes(attribute.String("voucher.rejected", err.Error()))
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "voucher quote rejected", slog.String("voucher.code", code), slog.String("error", err.Error()))
		}
		return nil, err
	}
	s.metrics.recordQuote(ctx, true, result.Discount)
	span.SetAttributes(attribute.Int64("voucher.discount_vnd", result.Discount))
	return result, nil
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
	quotes    metric.Int64Counter
	discounts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	quotes, _ := m.Int64Counter("vouchers.service.quotes", metric.WithDescription("Voucher quotes by outcome"))
	discounts, _ := m.Int64Counter("vouchers.service.discount_vnd", metric.WithDescription("Discounts quoted"), metric.WithUnit("VND"))
	return serviceMetrics{quotes: quotes, discounts: discounts}
}

func (m serviceMetrics) recordQuote(ctx context.Context, accepted bool, discount int64) {
	if m.quotes != nil {
		m.quotes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("accepted", accepted)))
	}
	if m.discounts != nil && accepted {
		m.discounts.Add(ctx, discount)
	}
}

var _ ports.Service = (*Service)(nil)
