package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/Apurer/flower-shop-api/internal/shared/money"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivery  Status = "delivery"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentVNPay PaymentMethod = "vnpay"
)

// MaxLineQuantity bounds a single order or cart line.
const MaxLineQuantity = 99

var (
	ErrNoItems              = errors.New("order needs at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be between 1 and 99")
	ErrInvalidPrice         = errors.New("item price must be greater than zero")
	ErrMissingProduct       = errors.New("item product id is required")
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrMissingShipping      = errors.New("shipping name, phone and address are required")
	ErrNegativeShipping     = errors.New("shipping price cannot be negative")
	ErrInvalidTransition    = errors.New("order status transition is not allowed")
	ErrCancelReasonRequired = errors.New("a reason is required to cancel an order")
	ErrAlreadyPaid          = errors.New("order is already paid")
	ErrOrderCancelled       = errors.New("order is cancelled")
	ErrInvalidDiscount      = errors.New("discount cannot be negative")
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivery, StatusCancelled},
	StatusDelivery:  {StatusCompleted},
}

// Item is a priced order line. Name and Image are snapshots taken when the order was placed.
type Item struct {
	ProductID string
	Name      string
	Image     string
	Quantity  int
	Size      string
	Color     string
	Price     int64
}

// LineTotal is price times quantity.
func (i Item) LineTotal() int64 {
	return money.LineTotal(i.Price, i.Quantity)
}

func (i Item) validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return ErrMissingProduct
	}
	if i.Quantity < 1 || i.Quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if i.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Shipping holds the delivery contact.
type Shipping struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

func (s Shipping) validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Phone) == "" || strings.TrimSpace(s.Address) == "" {
		return ErrMissingShipping
	}
	return nil
}

// Order is the purchase aggregate.
type Order struct {
	ID            string
	UserID        string
	Status        Status
	Note          string
	PaymentMethod PaymentMethod
	Items         []Item
	Shipping      Shipping
	PriceShipping int64
	VoucherCode   string
	Discount      int64
	Subtotal      int64
	Total         int64
	Paid          bool
	PaidAt        *time.Time
	ReasonCancel  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder validates the lines and contact and returns a pending order with totals computed.
func NewOrder(id, userID string, items []Item, shipping Shipping, method PaymentMethod, priceShipping int64, now time.Time) (*Order, error) {
	o := &Order{
		ID:            id,
		UserID:        userID,
		Status:        StatusPending,
		PaymentMethod: method,
		Items:         items,
		Shipping:      shipping,
		PriceShipping: priceShipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.Recalculate()
	return o, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	if err := o.Shipping.validate(); err != nil {
		return err
	}
	if _, err := ParsePaymentMethod(string(o.PaymentMethod)); err != nil {
		return err
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	if o.PriceShipping < 0 {
		return ErrNegativeShipping
	}
	if o.Discount < 0 {
		return ErrInvalidDiscount
	}
	return nil
}

// ApplyDiscount attaches a voucher and recomputes the totals.
func (o *Order) ApplyDiscount(code string, discount int64) error {
	if discount < 0 {
		return ErrInvalidDiscount
	}
	o.VoucherCode = code
	o.Discount = discount
	o.Recalculate()
	return nil
}

// Recalculate derives subtotal and total from the lines. The total never drops below zero.
func (o *Order) Recalculate() {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	o.Subtotal = subtotal
	total := subtotal - o.Discount + o.PriceShipping
	if total < 0 {
		total = 0
	}
	o.Total = total
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the order along the status machine. Cancelling requires a reason.
func (o *Order) TransitionTo(next Status, reason string, now time.Time) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, next) {
		return ErrInvalidTransition
	}
	if next == StatusCancelled {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return ErrCancelReasonRequired
		}
		o.ReasonCancel = reason
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

// MarkPaid records a successful online payment.
func (o *Order) MarkPaid(at time.Time) error {
	if o.Status == StatusCancelled {
		return ErrOrderCancelled
	}
	if o.Paid {
		return ErrAlreadyPaid
	}
	o.Paid = true
	paidAt := at
	o.PaidAt = &paidAt
	o.UpdatedAt = at
	return nil
}

// VisibleTo reports whether the user may read the order. Staff see everything.
func (o *Order) VisibleTo(userID string, staff bool) bool {
	return staff || (userID != "" && o.UserID == userID)
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	if o.PaidAt != nil {
		paidAt := *o.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}

// ParseStatus accepts exactly the known statuses.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ParsePaymentMethod defaults to cash on delivery.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PaymentCOD:
		return PaymentCOD, nil
	case PaymentVNPay, "payment":
		return PaymentVNPay, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusDelivery, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
