package shopserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	cartcatalog "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/flower-shop-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/flower-shop-api/internal/domains/catalog/application"
	chatmemory "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/memory"
	chatwebsocket "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/websocket"
	chatapp "github.com/Apurer/flower-shop-api/internal/domains/chat/application"
	insightsapp "github.com/Apurer/flower-shop-api/internal/domains/insights/application"
	insightsports "github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	ordercatalog "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/memory"
	ordervouchers "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/vouchers"
	orderworkflows "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	paymentmemory "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/memory"
	paymentorders "github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/orders"
	paymentapp "github.com/Apurer/flower-shop-api/internal/domains/payments/application"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
	usermemory "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/memory"
	userapp "github.com/Apurer/flower-shop-api/internal/domains/users/application"
	vouchermemory "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/memory"
	voucherapp "github.com/Apurer/flower-shop-api/internal/domains/vouchers/application"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
	"github.com/Apurer/flower-shop-api/internal/platform/cache"
)

type testServer struct {
	router  *gin.Engine
	tokens  *auth.Tokens
	ml      *stubSource
	chatSvc *chatapp.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: "handler-test-secret"})
	require.NoError(t, err)
	authz, err := auth.NewAuthorizer(nil)
	require.NoError(t, err)

	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	vouchers := voucherapp.NewService(vouchermemory.NewRepository())
	orders := orderapp.NewService(
		ordermemory.NewRepository(),
		ordercatalog.NewLookup(catalog),
		orderapp.WithVoucherQuoter(ordervouchers.NewQuoter(vouchers)),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
	)
	users := userapp.NewService(usermemory.NewRepository(), tokens)
	carts := cartapp.NewService(cartmemory.NewRepository(), cartcatalog.NewLookup(catalog))
	payments := paymentapp.NewService(
		vnpay.New(vnpay.Config{
			TmnCode:    "TESTCODE",
			HashSecret: "TESTSECRET",
			PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:3000/payment/return",
		}),
		paymentmemory.NewRepository(),
		paymentapp.WithOrderGateway(paymentorders.NewGateway(orders)),
	)
	ml := &stubSource{}
	insights := insightsapp.NewService(ml, cache.NewMemory())
	chat := chatapp.NewService(chatmemory.NewRepository())

	handlers := ApiHandleFunctions{
		Guard:       NewGuard(tokens, authz),
		ProductAPI:  NewProductAPI(catalog),
		OrderAPI:    NewOrderAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders, nil)),
		UserAPI:     NewUserAPI(users),
		VoucherAPI:  NewVoucherAPI(vouchers),
		CartAPI:     NewCartAPI(carts),
		PaymentAPI:  NewPaymentAPI(payments),
		InsightsAPI: NewInsightsAPI(insights),
		ChatAPI:     NewChatAPI(chat, chatwebsocket.NewHub(chat)),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = NewRouterWithGinEngine(router, handlers)

	return &testServer{router: router, tokens: tokens, ml: ml, chatSvc: chat}
}

func (s *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := s.tokens.IssueAccess(userID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type dataEnvelope[T any] struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
}

type docsEnvelope[T any] struct {
	Success       bool  `json:"success"`
	Docs          []T   `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int   `json:"limit"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	PagingCounter int   `json:"pagingCounter"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	PrevPage      *int  `json:"prevPage"`
	NextPage      *int  `json:"nextPage"`
}

type problemBody struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// createProduct stores an active product as staff and returns its id.
func (s *testServer) createProduct(t *testing.T, name string, price int64) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/product", s.token(t, "staff-1", auth.RoleStaff), map[string]any{
		"nameProduct": name,
		"price":       price,
		"images":      []map[string]string{{"url": "https://cdn.example/" + name + ".jpg"}},
		"size":        []string{"S", "M"},
		"color":       []string{"red"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[dataEnvelope[struct {
		ID string `json:"_id"`
	}]](t, rec)
	return body.Data.ID
}

type stubSource struct {
	products    []insightsports.Product
	forecastErr error
}

func (s *stubSource) Recommend(context.Context, string) ([]insightsports.Product, error) {
	return s.products, nil
}

func (s *stubSource) Popular(context.Context) ([]insightsports.Product, error) {
	return s.products, nil
}

func (s *stubSource) Forecast(context.Context) ([]insightsports.Product, error) {
	if s.forecastErr != nil {
		return nil, s.forecastErr
	}
	return s.products, nil
}

func (s *stubSource) BusinessStrategy(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"strategy":"bundle roses with cards"}`), nil
}

func (s *stubSource) PredictedLeads(context.Context, int, int) (json.RawMessage, error) {
	return json.RawMessage(`{"page":1,"leads":[]}`), nil
}

func (s *stubSource) Chat(_ context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.New("empty prompt")
	}
	return "Try our peonies.", nil
}

