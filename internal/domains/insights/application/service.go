package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/cache"
)

const (
	cacheNamespace = "ml"
	DefaultTTL     = 5 * time.Minute

	PartForecast = "forecast"
	PartPopular  = "popular"
	PartStrategy = "businessStrategy"
)

// Service caches ML responses and fans out dashboard requests.
type Service struct {
	source ports.Source
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTTL sets how long GET responses are cached. Zero disables caching.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func NewService(source ports.Source, c cache.Cache, opts ...ServiceOption) *Service {
	s := &Service{
		source: source,
		cache:  c,
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Recommend(ctx context.Context, userID string) ([]ports.Product, error) {
	userID = strings.TrimSpace(userID)
	return cached(ctx, s, "recommend", userID, func(ctx context.Context) ([]ports.Product, error) {
		return s.source.Recommend(ctx, userID)
	})
}

func (s *Service) Popular(ctx context.Context) ([]ports.Product, error) {
	return cached(ctx, s, "popular", "", s.source.Popular)
}

func (s *Service) Forecast(ctx context.Context) ([]ports.Product, error) {
	return cached(ctx, s, "forecast", "", s.source.Forecast)
}

func (s *Service) BusinessStrategy(ctx context.Context) (json.RawMessage, error) {
	return cached(ctx, s, "business-strategy", "", s.source.BusinessStrategy)
}

func (s *Service) PredictedLeads(ctx context.Context, page, limit int) (json.RawMessage, error) {
	key := strconv.Itoa(page) + ":" + strconv.Itoa(limit)
	return cached(ctx, s, "predicted-leads", key, func(ctx context.Context) (json.RawMessage, error) {
		return s.source.PredictedLeads(ctx, page, limit)
	})
}

// Chat is never cached.
func (s *Service) Chat(ctx context.Context, prompt string) (string, error) {
	reply, err := s.source.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}
	return reply, nil
}

// Overview loads forecast, popular products and strategy concurrently. A failing
// part is reported in Errors rather than failing the whole call.
func (s *Service) Overview(ctx context.Context) (*ports.Overview, error) {
	out := &ports.Overview{Errors: map[string]string{}}
	var mu sync.Mutex
	record := func(part string, err error) {
		mu.Lock()
		defer mu.Unlock()
		out.Errors[part] = err.Error()
	}

	var g errgroup.Group
	g.Go(func() error {
		forecast, err := s.Forecast(ctx)
		if err != nil {
			record(PartForecast, err)
			return nil
		}
		mu.Lock()
		out.Forecast = forecast
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		popular, err := s.Popular(ctx)
		if err != nil {
			record(PartPopular, err)
			return nil
		}
		mu.Lock()
		out.Popular = popular
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		strategy, err := s.BusinessStrategy(ctx)
		if err != nil {
			record(PartStrategy, err)
			return nil
		}
		mu.Lock()
		out.Strategy = strategy
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// cached is a read-through helper. Cache failures are logged and fall through to the source.
func cached[T any](ctx context.Context, s *Service, operation, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	cacheKey := cache.Key(cacheNamespace, operation, key)
	if s.cache != nil && s.ttl > 0 {
		raw, ok, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "insights cache read failed", slog.String("key", cacheKey), slog.String("error", err.Error()))
		case ok:
			var hit T
			if err := json.Unmarshal(raw, &hit); err == nil {
				return hit, nil
			}
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}
	if s.cache != nil && s.ttl > 0 {
		if raw, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.ttl); err != nil {
				s.logger.WarnContext(ctx, "insights cache write failed", slog.String("key", cacheKey), slog.String("error", err.Error()))
			}
		}
	}
	return value, nil
}

var _ ports.Service = (*Service)(nil)
