package observability

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	paymentapp "github.com/Apurer/flower-shop-api/internal/domains/payments/application"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payments service with tracing, logging, and metrics.
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

// New wraps the core payments service.
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

func (s *Service) CreatePaymentURL(ctx context.Context, input ports.CreatePaymentInput) (*ports.PaymentURL, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentsService.CreatePaymentURL", trace.WithAttributes(
		attribute.String("order.id", input.OrderID),
		attribute.String("payment.bank_code", input.BankCode),
	))
	defer span.End()

	result, err := s.inner.CreatePaymentURL(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create payment url", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordCreated(ctx, result.Transaction)
	span.SetAttributes(
		attribute.String("payment.txn_ref", result.Transaction.TxnRef),
		attribute.Int64("payment.amount", result.Transaction.Amount),
	)
	s.logInfo(ctx, "payment url created",
		slog.String("payment.txn_ref", result.Transaction.TxnRef),
		slog.String("order.id", result.Transaction.OrderID),
		slog.Int64("payment.amount", result.Transaction.Amount),
	)
	return result, nil
}

// HandleIPN never fails; the reply code is the outcome.
func (s *Service) HandleIPN(ctx context.Context, query url.Values) ports.GatewayReply {
	txnRef := query.Get("vnp_TxnRef")
	ctx, span := s.tracer.Start(ctx, "PaymentsService.HandleIPN", trace.WithAttributes(
		attribute.String("payment.txn_ref", txnRef),
		attribute.String("payment.response_code", query.Get("vnp_ResponseCode")),
	))
	defer span.End()

	reply := s.inner.HandleIPN(ctx, query)
	span.SetAttributes(attribute.String("payment.ipn_reply", reply.RspCode))
	s.metrics.recordIPN(ctx, reply.RspCode)
	level := slog.LevelInfo
	if reply.RspCode == paymentapp.RspInvalidSignature || reply.RspCode == paymentapp.RspUnknown {
		span.SetStatus(codes.Error, reply.Message)
		level = slog.LevelWarn
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, level, "payment notification handled",
			slog.String("payment.txn_ref", txnRef),
			slog.String("rsp_code", reply.RspCode),
			slog.String("message", reply.Message),
		)
	}
	return reply
}

func (s *Service) HandleReturn(ctx context.Context, query url.Values) ports.ReturnResult {
	ctx, span := s.tracer.Start(ctx, "PaymentsService.HandleReturn",
		trace.WithAttributes(attribute.String("payment.txn_ref", query.Get("vnp_TxnRef"))))
	defer span.End()

	result := s.inner.HandleReturn(ctx, query)
	span.SetAttributes(attribute.String("payment.return_code", result.Code))
	return result
}

func (s *Service) Get(ctx context.Context, txnRef string) (*domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentsService.Get", trace.WithAttributes(attribute.String("payment.txn_ref", txnRef)))
	defer span.End()

	result, err := s.inner.Get(ctx, txnRef)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load transaction", slog.String("payment.txn_ref", txnRef))
	}
	span.SetAttributes(attribute.String("payment.status", string(result.Status)))
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
	created       metric.Int64Counter
	requestedVND  metric.Int64Counter
	notifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("payments.service.created", metric.WithDescription("Payment URLs created"))
	requested, _ := m.Int64Counter("payments.service.requested_vnd", metric.WithDescription("Amounts sent to the gateway"), metric.WithUnit("VND"))
	notifications, _ := m.Int64Counter("payments.service.ipn", metric.WithDescription("Gateway notifications by reply code"))
	return serviceMetrics{created: created, requestedVND: requested, notifications: notifications}
}

func (m serviceMetrics) recordCreated(ctx context.Context, txn *domain.Transaction) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
	if m.requestedVND != nil && txn != nil {
		m.requestedVND.Add(ctx, txn.Amount)
	}
}

func (m serviceMetrics) recordIPN(ctx context.Context, code string) {
	if m.notifications != nil {
		m.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("rsp_code", code)))
	}
}

var _ ports.Service = (*Service)(nil)
