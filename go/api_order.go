package shopserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/flower-shop-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry POST /order safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and the placement workflow.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. Placement goes through workflows when one is given.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /order
// Places an order for the caller
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordermapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	input := ordermapper.ToPlaceOrderInput(payload, principal.UserID, key)

	var (
		order *orderdomain.Order
		err   error
	)
	if api.workflows != nil {
		order, err = api.workflows.PlaceOrder(c.Request.Context(), input)
	} else {
		order, err = api.service.PlaceOrder(c.Request.Context(), input)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Order placed", ordermapper.FromDomain(order))
}

// Get /orders
// Lists every order, filtered by status, user and search text
func (api *OrderAPI) ListOrders(c *gin.Context) {
	query, err := orderListQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	query.UserID = strings.TrimSpace(c.Query("userId"))
	api.list(c, query)
}

// Get /orders/me
// Lists the caller's orders
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	query, err := orderListQuery(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	query.UserID = principal.UserID
	api.list(c, query)
}

func (api *OrderAPI) list(c *gin.Context, query orderports.ListQuery) {
	page, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, "Orders fetched", page, func(o *orderdomain.Order) ordermapper.Order {
		return ordermapper.FromDomain(o)
	})
}

func orderListQuery(c *gin.Context) (orderports.ListQuery, error) {
	query := orderports.ListQuery{Page: pageQuery(c), Q: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := orderdomain.ParseStatus(raw)
		if err != nil {
			return query, fmt.Errorf("query status: %w", err)
		}
		query.Status = &status
	}
	return query, nil
}

// Get /order/:id
// Finds an order. Customers only see their own.
func (api *OrderAPI) GetOrder(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	order, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isStaff(principal) && order.UserID != principal.UserID {
		respondServiceError(c, orderports.ErrNotFound)
		return
	}
	respondData(c, http.StatusOK, "Order fetched", ordermapper.FromDomain(order))
}

// Patch /order/:id
// Moves an order along the status machine
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload ordermapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status, payload.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Order status updated", ordermapper.FromDomain(order))
}

// Patch /order/cancel/:id
// Cancels an order with a reason
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordermapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if status, err := orderdomain.ParseStatus(payload.Status); err != nil || status != orderdomain.StatusCancelled {
		respondBadRequest(c, fmt.Errorf("status must be %q", orderdomain.StatusCancelled))
		return
	}
	order, err := api.service.Cancel(c.Request.Context(), orderports.CancelOrderInput{
		ID:     c.Param("id"),
		Reason: payload.Message,
		Actor:  orderports.Actor{UserID: principal.UserID, Staff: isStaff(principal)},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Order cancelled", ordermapper.FromDomain(order))
}
