package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

// Item is the wire shape of an order line.
type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Price     int64  `json:"price"`
}

// Shipping is the delivery contact block.
type Shipping struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
}

// Order is the storefront/admin representation.
type Order struct {
	ID            string     `json:"_id"`
	UserID        string     `json:"userId,omitempty"`
	Status        string     `json:"status"`
	Note          string     `json:"note,omitempty"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         []Item     `json:"products"`
	Shipping      Shipping   `json:"infoOrderShipping"`
	PriceShipping int64      `json:"priceShipping"`
	VoucherCode   string     `json:"voucherCode,omitempty"`
	Discount      int64      `json:"discount"`
	Subtotal      int64      `json:"subtotal"`
	Total         int64      `json:"total"`
	Paid          bool       `json:"paid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	ReasonCancel  string     `json:"reasonCancel,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LineRequest is an order line as submitted by the client. Prices are ignored.
type LineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// PlaceOrderRequest is the body of POST /order.
type PlaceOrderRequest struct {
	Items         []LineRequest `json:"products" binding:"required"`
	Shipping      Shipping      `json:"infoOrderShipping"`
	PaymentMethod string        `json:"paymentMethod"`
	PriceShipping int64         `json:"priceShipping"`
	VoucherCode   string        `json:"voucherCode"`
	Note          string        `json:"note"`
}

// StatusRequest is the body of the status and cancel endpoints.
type StatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

func FromDomain(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			Price:     it.Price,
		})
	}
	return Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		Note:          o.Note,
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
		Shipping: Shipping{
			Name:    o.Shipping.Name,
			Phone:   o.Shipping.Phone,
			Address: o.Shipping.Address,
			Email:   o.Shipping.Email,
		},
		PriceShipping: o.PriceShipping,
		VoucherCode:   o.VoucherCode,
		Discount:      o.Discount,
		Subtotal:      o.Subtotal,
		Total:         o.Total,
		Paid:          o.Paid,
		PaidAt:        o.PaidAt,
		ReasonCancel:  o.ReasonCancel,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromDomainList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomain(o))
	}
	return out
}

// ToPlaceOrderInput converts the request; the caller supplies the authenticated user and idempotency key.
func ToPlaceOrderInput(req PlaceOrderRequest, userID, idempotencyKey string) ports.PlaceOrderInput {
	items := make([]ports.ItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, ports.ItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
	}
	return ports.PlaceOrderInput{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
		Items:          items,
		Shipping: domain.Shipping{
			Name:    req.Shipping.Name,
			Phone:   req.Shipping.Phone,
			Address: req.Shipping.Address,
			Email:   req.Shipping.Email,
		},
		PaymentMethod: req.PaymentMethod,
		PriceShipping: req.PriceShipping,
		VoucherCode:   req.VoucherCode,
		Note:          req.Note,
	}
}
