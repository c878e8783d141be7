package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip authorization; a valid token is still attached when present.
	Public bool
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the shop routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	identify := handleFunctions.Guard.Identify()
	authorize := handleFunctions.Guard.Authorize()
	for _, route := range getRoutes(handleFunctions) {
		guard := authorize
		if route.Public {
			guard = identify
		}
		router.Handle(route.Method, route.Pattern, guard, route.HandlerFunc)
	}
	return router
}

// ApiHandleFunctions groups the handlers of every resource.
type ApiHandleFunctions struct {
	Guard       *Guard
	ProductAPI  ProductAPI
	OrderAPI    OrderAPI
	UserAPI     UserAPI
	VoucherAPI  VoucherAPI
	CartAPI     CartAPI
	PaymentAPI  PaymentAPI
	InsightsAPI InsightsAPI
	ChatAPI     ChatAPI
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		// products
		{Name: "ListProducts", Method: http.MethodGet, Pattern: "/products", HandlerFunc: h.ProductAPI.ListProducts, Public: true},
		{Name: "GetProduct", Method: http.MethodGet, Pattern: "/product/:id", HandlerFunc: h.ProductAPI.GetProduct, Public: true},
		{Name: "CreateProduct", Method: http.MethodPost, Pattern: "/product", HandlerFunc: h.ProductAPI.CreateProduct},
		{Name: "UpdateProduct", Method: http.MethodPut, Pattern: "/product/:id", HandlerFunc: h.ProductAPI.UpdateProduct},
		{Name: "DeleteProduct", Method: http.MethodDelete, Pattern: "/product/:id", HandlerFunc: h.ProductAPI.DeleteProduct},
		{Name: "SoftDeleteProduct", Method: http.MethodPatch, Pattern: "/product/:id", HandlerFunc: h.ProductAPI.SoftDeleteProduct},
		{Name: "SoftDeleteProducts", Method: http.MethodPatch, Pattern: "/product-delete-multiple", HandlerFunc: h.ProductAPI.SoftDeleteProducts},

		// orders
		{Name: "PlaceOrder", Method: http.MethodPost, Pattern: "/order", HandlerFunc: h.OrderAPI.PlaceOrder},
		{Name: "ListOrders", Method: http.MethodGet, Pattern: "/orders", HandlerFunc: h.OrderAPI.ListOrders},
		{Name: "ListMyOrders", Method: http.MethodGet, Pattern: "/orders/me", HandlerFunc: h.OrderAPI.ListMyOrders},
		{Name: "GetOrder", Method: http.MethodGet, Pattern: "/order/:id", HandlerFunc: h.OrderAPI.GetOrder},
		{Name: "UpdateOrderStatus", Method: http.MethodPatch, Pattern: "/order/:id", HandlerFunc: h.OrderAPI.UpdateOrderStatus},
		{Name: "CancelOrder", Method: http.MethodPatch, Pattern: "/order/cancel/:id", HandlerFunc: h.OrderAPI.CancelOrder},

		// users
		{Name: "Register", Method: http.MethodPost, Pattern: "/register", HandlerFunc: h.UserAPI.Register, Public: true},
		{Name: "Login", Method: http.MethodPost, Pattern: "/login", HandlerFunc: h.UserAPI.Login, Public: true},
		{Name: "GetMe", Method: http.MethodGet, Pattern: "/me", HandlerFunc: h.UserAPI.GetMe},
		{Name: "UpdateMe", Method: http.MethodPut, Pattern: "/me", HandlerFunc: h.UserAPI.UpdateMe},
		{Name: "ListUsers", Method: http.MethodGet, Pattern: "/users", HandlerFunc: h.UserAPI.ListUsers},
		{Name: "UpdateAccount", Method: http.MethodPatch, Pattern: "/user/:id", HandlerFunc: h.UserAPI.UpdateAccount},
		{Name: "SendResetEmail", Method: http.MethodPost, Pattern: "/send-email", HandlerFunc: h.UserAPI.SendResetEmail, Public: true},
		{Name: "ResetPassword", Method: http.MethodPut, Pattern: "/reset-password", HandlerFunc: h.UserAPI.ResetPassword, Public: true},

		// vouchers
		{Name: "ListVouchers", Method: http.MethodGet, Pattern: "/vouchers", HandlerFunc: h.VoucherAPI.ListVouchers},
		{Name: "GetVoucher", Method: http.MethodGet, Pattern: "/voucher/:id", HandlerFunc: h.VoucherAPI.GetVoucher},
		{Name: "CreateVoucher", Method: http.MethodPost, Pattern: "/voucher", HandlerFunc: h.VoucherAPI.CreateVoucher},
		{Name: "UpdateVoucher", Method: http.MethodPut, Pattern: "/voucher/:id", HandlerFunc: h.VoucherAPI.UpdateVoucher},
		{Name: "DeleteVoucher", Method: http.MethodDelete, Pattern: "/voucher/:id", HandlerFunc: h.VoucherAPI.DeleteVoucher},
		{Name: "QuoteVoucher", Method: http.MethodPost, Pattern: "/voucher/quote", HandlerFunc: h.VoucherAPI.QuoteVoucher},

		// cart
		{Name: "AddToCart", Method: http.MethodPost, Pattern: "/cart", HandlerFunc: h.CartAPI.AddToCart},
		{Name: "GetCart", Method: http.MethodGet, Pattern: "/cart", HandlerFunc: h.CartAPI.GetCart},
		{Name: "UpdateCartItem", Method: http.MethodPatch, Pattern: "/cart/:productId", HandlerFunc: h.CartAPI.UpdateCartItem},
		{Name: "RemoveCartItem", Method: http.MethodDelete, Pattern: "/cart/:productId", HandlerFunc: h.CartAPI.RemoveCartItem},
		{Name: "ClearCart", Method: http.MethodDelete, Pattern: "/cart", HandlerFunc: h.CartAPI.ClearCart},

		// payments
		{Name: "CreatePaymentURL", Method: http.MethodPost, Pattern: "/create_payment_url", HandlerFunc: h.PaymentAPI.CreatePaymentURL},
		{Name: "PaymentIPN", Method: http.MethodGet, Pattern: "/vnpay_ipn", HandlerFunc: h.PaymentAPI.PaymentIPN, Public: true},
		{Name: "PaymentReturn", Method: http.MethodGet, Pattern: "/vnpay_return", HandlerFunc: h.PaymentAPI.PaymentReturn, Public: true},
		{Name: "GetTransaction", Method: http.MethodGet, Pattern: "/payments/:txnRef", HandlerFunc: h.PaymentAPI.GetTransaction},

		// insights
		{Name: "Recommend", Method: http.MethodGet, Pattern: "/recommend/:userId", HandlerFunc: h.InsightsAPI.Recommend},
		{Name: "Popular", Method: http.MethodGet, Pattern: "/popular", HandlerFunc: h.InsightsAPI.Popular, Public: true},
		{Name: "Forecast", Method: http.MethodGet, Pattern: "/forecast", HandlerFunc: h.InsightsAPI.Forecast},
		{Name: "BusinessStrategy", Method: http.MethodGet, Pattern: "/business-strategy", HandlerFunc: h.InsightsAPI.BusinessStrategy},
		{Name: "PredictedLeads", Method: http.MethodGet, Pattern: "/predicted-leads", HandlerFunc: h.InsightsAPI.PredictedLeads},
		{Name: "Chatbot", Method: http.MethodPost, Pattern: "/chatbot", HandlerFunc: h.InsightsAPI.Chatbot},
		{Name: "Overview", Method: http.MethodGet, Pattern: "/insights", HandlerFunc: h.InsightsAPI.Overview},

		// chat
		{Name: "Socket", Method: http.MethodGet, Pattern: "/socket", HandlerFunc: h.ChatAPI.Socket, Public: true},
		{Name: "RoomHistory", Method: http.MethodGet, Pattern: "/messages/:roomId", HandlerFunc: h.ChatAPI.RoomHistory},
	}
}
