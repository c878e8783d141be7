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

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
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

// New wraps the core catalog service.
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

func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Create", trace.WithAttributes(attribute.String("product.name", input.Name)))
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	s.metrics.recordMutation(ctx, "create")
	span.SetAttributes(attribute.String("product.id", result.ID))
	s.logInfo(ctx, "product created", slog.String("product.id", result.ID), slog.Int64("product.price", result.Price))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Get", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Update", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "update")
	s.logInfo(ctx, "product updated", slog.String("product.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordMutation(ctx, "delete")
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
}

func (s *Service) SoftDelete(ctx context.Context, id string, deleted bool) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SoftDelete",
		trace.WithAttributes(attribute.String("product.id", id), attribute.Bool("product.deleted", deleted)))
	defer span.End()

	result, err := s.inner.SoftDelete(ctx, id, deleted)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to flag product", slog.String("product.id", id))
	}
	s.metrics.recordMutation(ctx, "soft_delete")
	s.logInfo(ctx, "product flagged", slog.String("product.id", id), slog.Bool("deleted", deleted))
	return result, nil
}

func (s *Service) SoftDeleteMany(ctx context.Context, ids []string, deleted bool) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SoftDeleteMany",
		trace.WithAttributes(attribute.Int("product.count", len(ids)), attribute.Bool("product.deleted", deleted)))
	defer span.End()

	touched, err := s.inner.SoftDeleteMany(ctx, ids, deleted)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to flag products", slog.Int("product.count", len(ids)))
	}
	s.metrics.recordMutation(ctx, "soft_delete_many")
	s.logInfo(ctx, "products flagged", slog.Int64("product.touched", touched), slog.Bool("deleted", deleted))
	return touched, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Product], error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List",
		trace.WithAttributes(attribute.Int("page", query.Page.Page), attribute.String("q", query.Q)))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int64("product.total", result.Total))
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
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.mutations", metric.WithDescription("Product mutations by kind"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, kind string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("mutation", kind)))
	}
}

var _ ports.Service = (*Service)(nil)
