package shopserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmapper "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/http/mapper"
	vouchermapper "github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/http/mapper"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
)

func TestCartAPI_AddMergeAndRemove(t *testing.T) {
	srv := newTestServer(t)
	roseID := srv.createProduct(t, "rose", 150000)
	customer := srv.token(t, "customer-1", auth.RoleCustomer)

	rec := srv.do(t, http.MethodPost, "/cart", customer, map[string]any{"productId": roseID, "quantity": 2, "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/cart", customer, map[string]any{"productId": roseID, "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decode[dataEnvelope[cartmapper.Cart]](t, rec).Data
	require.Len(t, cart.Products, 1)
	assert.Equal(t, 3, cart.Products[0].Quantity)
	assert.EqualValues(t, 450000, cart.Subtotal)

	rec = srv.do(t, http.MethodPatch, "/cart/"+roseID, customer, map[string]any{"quantity": 100, "size": "M"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/cart/"+roseID, customer, map[string]any{"quantity": 1, "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 150000, decode[dataEnvelope[cartmapper.Cart]](t, rec).Data.Subtotal)

	rec = srv.do(t, http.MethodDelete, "/cart/"+roseID+"?size=L", customer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/cart/"+roseID+"?size=M", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dataEnvelope[cartmapper.Cart]](t, rec).Data.Products)

	rec = srv.do(t, http.MethodDelete, "/cart", customer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartAPI_CartsArePerUser(t *testing.T) {
	srv := newTestServer(t)
	roseID := srv.createProduct(t, "rose", 150000)

	rec := srv.do(t, http.MethodPost, "/cart", srv.token(t, "alice", auth.RoleCustomer), map[string]any{"productId": roseID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/cart", srv.token(t, "bob", auth.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dataEnvelope[cartmapper.Cart]](t, rec).Data.Products)
}

func TestVoucherAPI_CreateAndQuote(t *testing.T) {
	srv := newTestServer(t)
	staff := srv.token(t, "staff-1", auth.RoleStaff)
	customer := srv.token(t, "customer-1", auth.RoleCustomer)

	rec := srv.do(t, http.MethodPost, "/voucher", staff, map[string]any{
		"code":            "spring10",
		"discount":        10,
		"voucherPrice":    20000,
		"applicablePrice": 100000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	voucher := decode[dataEnvelope[vouchermapper.Voucher]](t, rec).Data
	assert.Equal(t, "SPRING10", voucher.Code)

	rec = srv.do(t, http.MethodPost, "/voucher", staff, map[string]any{"code": "SPRING10", "discount": 5})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/voucher/quote", customer, map[string]any{"code": "spring10", "subtotal": 150000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[dataEnvelope[vouchermapper.Quote]](t, rec).Data
	assert.EqualValues(t, 15000, quote.Discount)
	assert.EqualValues(t, 135000, quote.Total)

	rec = srv.do(t, http.MethodPost, "/voucher/quote", customer, map[string]any{"code": "spring10", "subtotal": 500000})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 20000, decode[dataEnvelope[vouchermapper.Quote]](t, rec).Data.Discount, "capped by voucherPrice")

	rec = srv.do(t, http.MethodPost, "/voucher/quote", customer, map[string]any{"code": "spring10", "subtotal": 50000})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = srv.do(t, http.MethodPost, "/voucher/quote", customer, map[string]any{"code": "nope", "subtotal": 50000})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/voucher/"+voucher.ID, staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/voucher/quote", customer, map[string]any{"code": "spring10", "subtotal": 150000})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "deleted vouchers no longer apply")

	rec = srv.do(t, http.MethodGet, "/vouchers?deleted=false", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dataEnvelope[[]vouchermapper.Voucher]](t, rec).Data)
}
