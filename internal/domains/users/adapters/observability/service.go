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

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/observability/service"

// Service decorates the users service with tracing, logging, and metrics.
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

// New wraps the core users service.
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

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.Register")
	defer span.End()

	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	s.metrics.add(ctx, s.metrics.registered)
	span.SetAttributes(attribute.String("user.id", result.ID))
	s.logInfo(ctx, "user registered", slog.String("user.id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.Login")
	defer span.End()

	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx, true)
	span.SetAttributes(attribute.String("user.id", result.User.ID), attribute.String("user.role", string(result.User.Role)))
	s.logInfo(ctx, "user logged in", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.Profile", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	result, err := s.inner.Profile(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load profile", slog.String("user.id", id))
	}
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.UpdateProfile", trace.WithAttributes(attribute.String("user.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateProfile(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.String("user.id", input.ID))
	}
	s.metrics.add(ctx, s.metrics.updated)
	s.logInfo(ctx, "profile updated", slog.String("user.id", input.ID))
	return result, nil
}

func (s *Service) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.User], error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.List", trace.WithAttributes(attribute.Int("page", query.Page.Page)))
	defer span.End()

	result, err := s.inner.List(ctx, query)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int64("user.total_docs", result.Total))
	return result, nil
}

func (s *Service) UpdateAccount(ctx context.Context, input ports.UpdateAccountInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.UpdateAccount", trace.WithAttributes(attribute.String("user.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateAccount(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update account", slog.String("user.id", input.ID))
	}
	s.metrics.add(ctx, s.metrics.updated)
	s.logInfo(ctx, "account updated",
		slog.String("user.id", result.ID),
		slog.String("user.role", string(result.Role)),
		slog.String("user.status", string(result.Status)),
	)
	return result, nil
}

func (s *Service) SendResetEmail(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "UsersService.SendResetEmail")
	defer span.End()

	if err := s.inner.SendResetEmail(ctx, email); err != nil {
		return s.handleError(ctx, span, err, "failed to send reset email")
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, input ports.ResetPasswordInput) error {
	ctx, span := s.tracer.Start(ctx, "UsersService.ResetPassword")
	defer span.End()

	if err := s.inner.ResetPassword(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to reset password")
	}
	s.logInfo(ctx, "password reset")
	return nil
}

func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UsersService.EnsureAdmin")
	defer span.End()

	result, err := s.inner.EnsureAdmin(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ensure admin")
	}
	s.logInfo(ctx, "admin account ensured", slog.String("user.id", result.ID))
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
	registered metric.Int64Counter
	logins     metric.Int64Counter
	updated    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Login attempts"))
	updated, _ := m.Int64Counter("users.service.updated", metric.WithDescription("Account and profile updates"))
	return serviceMetrics{registered: registered, logins: logins, updated: updated}
}

func (m serviceMetrics) add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

var _ ports.Service = (*Service)(nil)
