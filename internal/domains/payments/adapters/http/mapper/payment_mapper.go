package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

// CreatePaymentRequest is the body of POST /create_payment_url.
type CreatePaymentRequest struct {
	OrderID          string `json:"orderId"`
	Amount           int64  `json:"amount"`
	OrderDescription string `json:"orderDescription"`
	BankCode         string `json:"bankCode"`
	Language         string `json:"language"`
	OrderType        string `json:"orderType"`
}

// PaymentURL is returned to the storefront, which redirects the browser to it.
type PaymentURL struct {
	PaymentURL string `json:"paymentUrl"`
	TxnRef     string `json:"txnRef"`
	Amount     int64  `json:"amount"`
}

// GatewayReply is the IPN acknowledgement in the gateway's casing.
type GatewayReply struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// ReturnResult is the browser return payload.
type ReturnResult struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// Transaction is the admin view of a gateway transaction.
type Transaction struct {
	TxnRef        string     `json:"txnRef"`
	OrderID       string     `json:"orderId,omitempty"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	BankCode      string     `json:"bankCode,omitempty"`
	ResponseCode  string     `json:"responseCode,omitempty"`
	TransactionNo string     `json:"transactionNo,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func ToCreateInput(req CreatePaymentRequest, ip string) ports.CreatePaymentInput {
	return ports.CreatePaymentInput{
		OrderID:          req.OrderID,
		Amount:           req.Amount,
		OrderDescription: req.OrderDescription,
		BankCode:         req.BankCode,
		Language:         req.Language,
		OrderType:        req.OrderType,
		IPAddr:           ip,
	}
}

func FromPaymentURL(p *ports.PaymentURL) PaymentURL {
	return PaymentURL{PaymentURL: p.URL, TxnRef: p.Transaction.TxnRef, Amount: p.Transaction.Amount}
}

func FromReply(r ports.GatewayReply) GatewayReply {
	return GatewayReply{RspCode: r.RspCode, Message: r.Message}
}

func FromReturn(r ports.ReturnResult) ReturnResult {
	return ReturnResult{Code: r.Code, Message: r.Message, Data: r.Data}
}

func FromTransaction(t *domain.Transaction) Transaction {
	return Transaction{
		TxnRef:        t.TxnRef,
		OrderID:       t.OrderID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		BankCode:      t.BankCode,
		ResponseCode:  t.ResponseCode,
		TransactionNo: t.TransactionNo,
		PaidAt:        t.PaidAt,
		CreatedAt:     t.CreatedAt,
	}
}
