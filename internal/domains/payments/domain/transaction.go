package domain

import (
	"errors"
	"strings"
	"time"
)

// Status tracks a gateway transaction.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

var (
	ErrMissingTxnRef      = errors.New("transaction reference is required")
	ErrInvalidAmount      = errors.New("transaction amount must be positive")
	ErrAlreadySettled     = errors.New("transaction is already settled")
	ErrAmountMismatch     = errors.New("transaction amount does not match")
	ErrInvalidTransaction = errors.New("transaction status is invalid")
)

// Transaction is one attempt to pay through the gateway.
type Transaction struct {
	TxnRef        string
	OrderID       string
	Amount        int64
	OrderInfo     string
	BankCode      string
	Status        Status
	ResponseCode  string
	TransactionNo string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction returns a pending transaction.
func NewTransaction(txnRef, orderID string, amount int64, orderInfo string, now time.Time) (*Transaction, error) {
	t := &Transaction{
		TxnRef:    strings.TrimSpace(txnRef),
		OrderID:   strings.TrimSpace(orderID),
		Amount:    amount,
		OrderInfo: orderInfo,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transaction) Validate() error {
	if t.TxnRef == "" {
		return ErrMissingTxnRef
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch t.Status {
	case StatusPending, StatusPaid, StatusFailed:
		return nil
	default:
		return ErrInvalidTransaction
	}
}

// Settled reports whether the gateway already confirmed an outcome.
func (t *Transaction) Settled() bool {
	return t.Status != StatusPending
}

// Settle records the gateway verdict. The amount must equal what was requested.
func (t *Transaction) Settle(amount int64, success bool, responseCode, transactionNo, bankCode string, now time.Time) error {
	if t.Settled() {
		return ErrAlreadySettled
	}
	if amount != t.Amount {
		return ErrAmountMismatch
	}
	t.ResponseCode = responseCode
	t.TransactionNo = transactionNo
	if bankCode != "" {
		t.BankCode = bankCode
	}
	if success {
		t.Status = StatusPaid
		paidAt := now
		t.PaidAt = &paidAt
	} else {
		t.Status = StatusFailed
	}
	t.UpdatedAt = now
	return nil
}

// Clone returns a copy.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.PaidAt != nil {
		paidAt := *t.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}
