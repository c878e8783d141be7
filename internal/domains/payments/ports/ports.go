package ports

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
)

var (
	// ErrNotFound is returned when no transaction matches the reference.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateTxnRef is returned when a reference is reused.
	ErrDuplicateTxnRef = errors.New("transaction reference already exists")
	// ErrOrderNotFound is returned by OrderGateway for unknown orders.
	ErrOrderNotFound = errors.New("order not found")
)

// TransactionRepository persists gateway transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	// Settle stores the gateway verdict only while the stored transaction is pending;
	// otherwise it returns domain.ErrAlreadySettled.
	Settle(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	GetByTxnRef(ctx context.Context, txnRef string) (*domain.Transaction, error)
}

// PayableOrder is the order view payments need.
type PayableOrder struct {
	ID        string
	Total     int64
	Paid      bool
	Cancelled bool
}

// OrderGateway reads and settles orders owned by the orders context.
type OrderGateway interface {
	PayableOrder(ctx context.Context, id string) (*PayableOrder, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}

// CreatePaymentInput requests a payment URL. Amount is used only without OrderID.
type CreatePaymentInput struct {
	OrderID          string
	Amount           int64
	OrderDescription string
	BankCode         string
	Language         string
	OrderType        string
	IPAddr           string
}

// PaymentURL is the redirect target and the recorded transaction.
type PaymentURL struct {
	URL         string
	Transaction *domain.Transaction
}

// GatewayReply is the IPN acknowledgement body.
type GatewayReply struct {
	RspCode string
	Message string
}

// ReturnResult is shown to the browser after the payment page.
type ReturnResult struct {
	Code    string
	Message string
	Data    map[string]string
}

// Service exposes payment use cases.
type Service interface {
	CreatePaymentURL(ctx context.Context, input CreatePaymentInput) (*PaymentURL, error)
	HandleIPN(ctx context.Context, query url.Values) GatewayReply
	HandleReturn(ctx context.Context, query url.Values) ReturnResult
	Get(ctx context.Context, txnRef string) (*domain.Transaction, error)
}
