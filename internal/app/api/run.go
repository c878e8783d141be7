package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	shopserver "github.com/Apurer/flower-shop-api/go"
	chatwebsocket "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/websocket"
	orderworkflows "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/flower-shop-api/internal/platform/observability"
)

const serviceName = "flower-shop-api"

// Run boots the shop HTTP API with observability, repositories and workflows wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, cleanup, err := BuildServices(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders, logger)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	hub := chatwebsocket.NewHub(
		services.Chat,
		chatwebsocket.WithLogger(logger),
		chatwebsocket.WithAllowedOrigins(cfg.CORSOrigins),
	)

	handlers := shopserver.ApiHandleFunctions{
		Guard:       shopserver.NewGuard(services.Tokens, services.Authorizer),
		ProductAPI:  shopserver.NewProductAPI(services.Catalog),
		OrderAPI:    shopserver.NewOrderAPI(services.Orders, orderWorkflows),
		UserAPI:     shopserver.NewUserAPI(services.Users),
		VoucherAPI:  shopserver.NewVoucherAPI(services.Vouchers),
		CartAPI:     shopserver.NewCartAPI(services.Cart),
		PaymentAPI:  shopserver.NewPaymentAPI(services.Payments),
		InsightsAPI: shopserver.NewInsightsAPI(services.Insights),
		ChatAPI:     shopserver.NewChatAPI(services.Chat, hub),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	engine = shopserver.NewRouterWithGinEngine(engine, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpHandler(cfg, engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("shop API listening", slog.String("addr", srv.Addr), slog.String("prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down shop API")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// httpHandler mounts the router under the API prefix and applies CORS.
func httpHandler(cfg Config, engine http.Handler) http.Handler {
	handler := engine
	if cfg.APIPrefix != "" {
		handler = http.StripPrefix(cfg.APIPrefix, engine)
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
}
