package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
)

// IPN reply codes understood by the gateway.
const (
	RspSuccess          = "00"
	RspNotFound         = "01"
	RspAlreadyConfirmed = "02"
	RspInvalidAmount    = "04"
	RspInvalidSignature = "97"
	RspUnknown          = "99"
)

const maxTxnRefAttempts = 3

// Service implements the VNPay payment flow.
type Service struct {
	gateway *vnpay.Client
	txns    ports.TransactionRepository
	orders  ports.OrderGateway
	logger  *slog.Logger
	now     func() time.Time
}

type ServiceOption func(*Service)

// WithOrderGateway links payments to orders so IPNs mark orders paid.
func WithOrderGateway(orders ports.OrderGateway) ServiceOption {
	return func(s *Service) { s.orders = orders }
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(gateway *vnpay.Client, txns ports.TransactionRepository, opts ...ServiceOption) *Service {
	s := &Service{
		gateway: gateway,
		txns:    txns,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreatePaymentURL records a pending transaction and returns the signed redirect URL.
func (s *Service) CreatePaymentURL(ctx context.Context, input ports.CreatePaymentInput) (*ports.PaymentURL, error) {
	if s.gateway == nil {
		return nil, mapError(vnpay.ErrNotConfigured)
	}
	if err := s.gateway.Config().Validate(); err != nil {
		return nil, mapError(err)
	}
	amount := input.Amount
	orderID := strings.TrimSpace(input.OrderID)
	if orderID != "" {
		if s.orders == nil {
			return nil, errors.New("order gateway not configured")
		}
		order, err := s.orders.PayableOrder(ctx, orderID)
		if err != nil {
			return nil, mapError(err)
		}
		if order.Paid {
			return nil, fmt.Errorf("%w: order %s is already paid", ErrOrderNotPayable, orderID)
		}
		if order.Cancelled {
			return nil, fmt.Errorf("%w: order %s is cancelled", ErrOrderNotPayable, orderID)
		}
		amount = order.Total
	}
	info := strings.TrimSpace(input.OrderDescription)

	now := s.now()
	var saved *domain.Transaction
	for attempt := 0; attempt < maxTxnRefAttempts; attempt++ {
		ref := s.txnRef(now, attempt)
		if info == "" {
			info = "Thanh toan don hang " + ref
		}
		txn, err := domain.NewTransaction(ref, orderID, amount, info, now)
		if err != nil {
			return nil, mapError(err)
		}
		txn.BankCode = strings.TrimSpace(input.BankCode)
		saved, err = s.txns.Create(ctx, txn)
		if errors.Is(err, ports.ErrDuplicateTxnRef) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if saved == nil {
		return nil, ports.ErrDuplicateTxnRef
	}

	paymentURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		TxnRef:    saved.TxnRef,
		Amount:    saved.Amount,
		OrderInfo: saved.OrderInfo,
		OrderType: input.OrderType,
		Locale:    input.Language,
		BankCode:  saved.BankCode,
		IPAddr:    input.IPAddr,
		CreatedAt: now,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.PaymentURL{URL: paymentURL, Transaction: saved}, nil
}

// txnRef is ddHHmmss in gateway time; retries append a short random suffix.
func (s *Service) txnRef(now time.Time, attempt int) string {
	ref := now.In(s.gateway.Config().Location).Format("02150405")
	if attempt == 0 {
		return ref
	}
	return ref + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
}

// HandleIPN settles a transaction from a gateway notification. It always produces a reply.
func (s *Service) HandleIPN(ctx context.Context, query url.Values) ports.GatewayReply {
	result, err := s.verify(query)
	if err != nil {
		if errors.Is(err, vnpay.ErrInvalidSignature) || errors.Is(err, vnpay.ErrMissingSignature) || errors.Is(err, vnpay.ErrTmnCodeMismatch) {
			s.logger.WarnContext(ctx, "vnpay ipn rejected", slog.String("txn_ref", query.Get("vnp_TxnRef")), slog.String("error", err.Error()))
			return ports.GatewayReply{RspCode: RspInvalidSignature, Message: "Invalid signature"}
		}
		return ports.GatewayReply{RspCode: RspInvalidAmount, Message: "Invalid amount"}
	}

	txn, err := s.txns.GetByTxnRef(ctx, result.TxnRef)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.GatewayReply{RspCode: RspNotFound, Message: "Order not found"}
		}
		s.logger.ErrorContext(ctx, "vnpay ipn lookup failed", slog.String("txn_ref", result.TxnRef), slog.String("error", err.Error()))
		return ports.GatewayReply{RspCode: RspUnknown, Message: "Unknown error"}
	}
	if txn.Settled() {
		return ports.GatewayReply{RspCode: RspAlreadyConfirmed, Message: "Order already confirmed"}
	}
	now := s.now()
	if err := txn.Settle(result.Amount, result.Succeeded(), result.ResponseCode, result.TransactionNo, result.BankCode, now); err != nil {
		if errors.Is(err, domain.ErrAmountMismatch) {
			return ports.GatewayReply{RspCode: RspInvalidAmount, Message: "Invalid amount"}
		}
		return ports.GatewayReply{RspCode: RspAlreadyConfirmed, Message: "Order already confirmed"}
	}
	if _, err := s.txns.Settle(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			return ports.GatewayReply{RspCode: RspAlreadyConfirmed, Message: "Order already confirmed"}
		}
		s.logger.ErrorContext(ctx, "vnpay ipn save failed", slog.String("txn_ref", txn.TxnRef), slog.String("error", err.Error()))
		return ports.GatewayReply{RspCode: RspUnknown, Message: "Unknown error"}
	}
	if txn.Status == domain.StatusPaid && txn.OrderID != "" && s.orders != nil {
		if err := s.orders.MarkPaid(ctx, txn.OrderID, now); err != nil {
			s.logger.ErrorContext(ctx, "order not marked paid", slog.String("order.id", txn.OrderID), slog.String("txn_ref", txn.TxnRef), slog.String("error", err.Error()))
		}
	}
	s.logger.InfoContext(ctx, "vnpay ipn settled",
		slog.String("txn_ref", txn.TxnRef),
		slog.String("status", string(txn.Status)),
		slog.String("response_code", result.ResponseCode),
	)
	return ports.GatewayReply{RspCode: RspSuccess, Message: "Confirm Success"}
}

// HandleReturn verifies the browser redirect. It does not change any state.
func (s *Service) HandleReturn(_ context.Context, query url.Values) ports.ReturnResult {
	result, err := s.verify(query)
	if err != nil {
		return ports.ReturnResult{Code: RspInvalidSignature, Message: "Fail checksum"}
	}
	data := make(map[string]string, len(query))
	for k := range query {
		if k == vnpay.ParamSecureHash || k == vnpay.ParamSecureHashType {
			continue
		}
		data[k] = query.Get(k)
	}
	return ports.ReturnResult{Code: RspSuccess, Message: vnpay.ResponseMessage(result.ResponseCode), Data: data}
}

func (s *Service) Get(ctx context.Context, txnRef string) (*domain.Transaction, error) {
	return s.txns.GetByTxnRef(ctx, strings.TrimSpace(txnRef))
}

func (s *Service) verify(query url.Values) (*vnpay.CallbackResult, error) {
	if s.gateway == nil {
		return nil, vnpay.ErrInvalidSignature
	}
	return s.gateway.VerifyCallback(query)
}

var _ ports.Service = (*Service)(nil)
