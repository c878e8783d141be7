package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/Apurer/flower-shop-api/internal/clients/http/ml"
	cartcatalog "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/Apurer/flower-shop-api/internal/domains/cart/application"
	cartports "github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/flower-shop-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	chatmemory "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/memory"
	chatpostgres "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/persistence/postgres"
	chatapp "github.com/Apurer/flower-shop-api/internal/domains/chat/application"
	chatports "github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
	insightsml "github.com/Apurer/flower-shop-api/internal/domains/insights/adapters/ml"
	insightsapp "github.com/Apurer/flower-shop-api/internal/domains/insights/application"
	insightsports "github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	ordercatalog "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/memory"
	ordernotify "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/notify"
	orderobs "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/persistence/postgres"
	ordervouchers "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/vouchers"
	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	paymentmemory "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/memory"
	paymentobs "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/observability"
	paymentorders "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/orders"
	paymentpostgres "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/persistence/postgres"
	paymentapp "github.com/Apurer/flower-shop-api/internal/domains/payments/application"
	paymentports "github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
	usermemory "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/memory"
	usernotify "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/notify"
	userobs "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/flower-shop-api/internal/domains/users/application"
	userports "github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	vouchermemory "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/memory"
	voucherobs "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/observability"
	voucherpostgres "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/persistence/postgres"
	voucherapp "github.com/Apurer/flower-shop-api/internal/domains/vouchers/application"
	voucherports "github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
	"github.com/Apurer/flower-shop-api/internal/platform/cache"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
	"github.com/Apurer/flower-shop-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/flower-shop-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/flower-shop-api/internal/platform/postgres"
)

// Services holds the application services of every bounded context, wired
// against Postgres when available and in-memory adapters otherwise.
type Services struct {
	Tokens     *auth.Tokens
	Authorizer *auth.Authorizer
	Catalog    catalogports.Service
	Vouchers   voucherports.Service
	Orders     orderports.Service
	Users      userports.Service
	Cart       cartports.Service
	Payments   paymentports.Service
	Insights   insightsports.Service
	Chat       chatports.Service
}

type repositories struct {
	catalog     catalogports.Repository
	vouchers    voucherports.Repository
	orders      orderports.Repository
	idempotency orderports.IdempotencyStore
	users       userports.Repository
	resetTokens userports.ResetTokenStore
	cart        cartports.Repository
	payments    paymentports.TransactionRepository
	chat        chatports.Repository
}

func memoryRepositories() repositories {
	return repositories{
		catalog:     catalogmemory.NewRepository(),
		vouchers:    vouchermemory.NewRepository(),
		orders:      ordermemory.NewRepository(),
		idempotency: ordermemory.NewIdempotencyStore(),
		users:       usermemory.NewRepository(),
		resetTokens: usermemory.NewResetTokenStore(),
		cart:        cartmemory.NewRepository(),
		payments:    paymentmemory.NewRepository(),
		chat:        chatmemory.NewRepository(),
	}
}

func postgresRepositories(db *gorm.DB) repositories {
	return repositories{
		catalog:     catalogpostgres.NewRepository(db),
		vouchers:    voucherpostgres.NewRepository(db),
		orders:      orderpostgres.NewRepository(db),
		idempotency: orderpostgres.NewIdempotencyStore(db),
		users:       userpostgres.NewRepository(db),
		resetTokens: userpostgres.NewResetTokenStore(db),
		cart:        cartpostgres.NewRepository(db),
		payments:    paymentpostgres.NewRepository(db),
		chat:        chatpostgres.NewRepository(db),
	}
}

// BuildServices connects the shared infrastructure and wires every context.
// The returned cleanup closes the database pool and cache.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, func(), error) {
	logger := instruments.LoggerOrDefault()
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repos := memoryRepositories()
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		repos = postgresRepositories(db)
		logger.Info("repositories configured with postgres")
	}

	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: cfg.JWTSecret, Issuer: "flower-shop", AccessTTL: cfg.JWTAccessTTL})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	authz, err := buildAuthorizer(db, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	responseCache := buildCache(ctx, cfg.RedisAddr, logger)
	cleanups = append(cleanups, func() { _ = responseCache.Close() })

	sender := mail.New(cfg.SMTP, logger)

	catalog := catalogobs.New(
		catalogapp.NewService(repos.catalog),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	vouchers := voucherobs.New(
		voucherapp.NewService(repos.vouchers),
		voucherobs.WithLogger(logger),
		voucherobs.WithTracer(instruments.Tracer("internal.vouchers.application")),
		voucherobs.WithMeter(instruments.Meter("internal.vouchers.application")),
	)
	orders := orderobs.New(
		orderapp.NewService(
			repos.orders,
			ordercatalog.NewLookup(catalog),
			orderapp.WithVoucherQuoter(ordervouchers.NewQuoter(vouchers)),
			orderapp.WithIdempotencyStore(repos.idempotency),
			orderapp.WithNotifier(ordernotify.NewMailNotifier(sender)),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	users := userobs.New(
		userapp.NewService(
			repos.users,
			tokens,
			userapp.WithPasswordReset(repos.resetTokens, usernotify.NewResetMailer(sender), cfg.ResetPasswordURL),
		),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	carts := cartapp.NewService(repos.cart, cartcatalog.NewLookup(catalog), cartapp.WithLogger(logger))
	payments := paymentobs.New(
		paymentapp.NewService(
			vnpay.New(cfg.VNPay),
			repos.payments,
			paymentapp.WithOrderGateway(paymentorders.NewGateway(orders)),
			paymentapp.WithLogger(logger),
		),
		paymentobs.WithLogger(logger),
		paymentobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentobs.WithMeter(instruments.Meter("internal.payments.application")),
	)

	mlClient, err := ml.NewClient(cfg.MLBaseURL, &http.Client{
		Timeout:   cfg.MLTimeout,
		Transport: instruments.HTTPTransport(nil),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	insights := insightsapp.NewService(
		insightsml.NewSource(mlClient),
		responseCache,
		insightsapp.WithLogger(logger),
		insightsapp.WithTTL(cfg.MLCacheTTL),
	)

	return &Services{
		Tokens:     tokens,
		Authorizer: authz,
		Catalog:    catalog,
		Vouchers:   vouchers,
		Orders:     orders,
		Users:      users,
		Cart:       carts,
		Payments:   payments,
		Insights:   insights,
		Chat:       chatapp.NewService(repos.chat),
	}, cleanup, nil
}

func buildAuthorizer(db *gorm.DB, logger *slog.Logger) (*auth.Authorizer, error) {
	if db == nil {
		return auth.NewAuthorizer(nil)
	}
	authz, err := auth.NewGormAuthorizer(db)
	if err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}
	logger.Info("route policies loaded from postgres")
	return authz, nil
}

func buildCache(ctx context.Context, addr string, logger *slog.Logger) cache.Cache {
	if addr == "" {
		logger.Warn("REDIS_ADDR not set, caching ML responses in memory")
		return cache.NewMemory()
	}
	redisCache, err := cache.NewRedis(ctx, addr)
	if err != nil {
		logger.Warn("failed to connect to redis, caching ML responses in memory", slog.String("error", err.Error()))
		return cache.NewMemory()
	}
	logger.Info("ML response cache configured with redis", slog.String("addr", addr))
	return redisCache
}
