package application

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/vnpay"
)

const secret = "SECRETKEY"

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*ports.PayableOrder
	paid   []string
}

func (f *fakeOrders) PayableOrder(_ context.Context, id string) (*ports.PayableOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid = append(f.paid, id)
	f.orders[id].Paid = true
	return nil
}

var clock = time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeOrders, *memory.Repository) {
	gateway := vnpay.New(vnpay.Config{
		TmnCode:    "DEMO1234",
		HashSecret: secret,
		PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example/vnpay_return",
	})
	orders := &fakeOrders{orders: map[string]*ports.PayableOrder{
		"o-1":       {ID: "o-1", Total: 850000},
		"paid":      {ID: "paid", Total: 1000, Paid: true},
		"cancelled": {ID: "cancelled", Total: 1000, Cancelled: true},
	}}
	repo := memory.NewRepository()
	svc := NewService(gateway, repo, WithOrderGateway(orders), WithClock(func() time.Time { return clock }))
	return svc, orders, repo
}

// ipn builds a gateway notification signed with the merchant secret.
func ipn(txnRef string, amount string, responseCode string) url.Values {
	q := url.Values{}
	q.Set("vnp_TmnCode", "DEMO1234")
	q.Set("vnp_TxnRef", txnRef)
	q.Set("vnp_Amount", amount)
	q.Set("vnp_ResponseCode", responseCode)
	q.Set("vnp_TransactionStatus", responseCode)
	q.Set("vnp_TransactionNo", "14422574")
	q.Set("vnp_BankCode", "NCB")
	q.Set(vnpay.ParamSecureHash, vnpay.Sign(secret, q))
	return q
}

func TestCreatePaymentURL_ChargesOrderTotal(t *testing.T) {
	svc, _, repo := newTestService()

	result, err := svc.CreatePaymentURL(context.Background(), ports.CreatePaymentInput{OrderID: "o-1", Amount: 1, IPAddr: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "08160000", result.Transaction.TxnRef)
	assert.Equal(t, int64(850000), result.Transaction.Amount)

	parsed, err := url.Parse(result.URL)
	require.NoError(t, err)
	assert.Equal(t, "85000000", parsed.Query().Get("vnp_Amount"))
	assert.Equal(t, "10.0.0.1", parsed.Query().Get("vnp_IpAddr"))

	stored, err := repo.GetByTxnRef(context.Background(), "08160000")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, "o-1", stored.OrderID)
}

func TestCreatePaymentURL_FreeAmountAndRefCollision(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.CreatePaymentURL(context.Background(), ports.CreatePaymentInput{Amount: 50000, OrderDescription: "Nap tien"})
	require.NoError(t, err)
	second, err := svc.CreatePaymentURL(context.Background(), ports.CreatePaymentInput{Amount: 50000, OrderDescription: "Nap tien"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Transaction.TxnRef, second.Transaction.TxnRef)
	assert.Len(t, second.Transaction.TxnRef, 12)
}

func TestCreatePaymentURL_Rejections(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "paid"})
	require.ErrorIs(t, err, ErrOrderNotPayable)

	_, err = svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "cancelled"})
	require.ErrorIs(t, err, ErrOrderNotPayable)

	_, err = svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "missing"})
	require.ErrorIs(t, err, ports.ErrOrderNotFound)

	_, err = svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{Amount: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePaymentURL_GatewayNotConfigured(t *testing.T) {
	svc := NewService(vnpay.New(vnpay.Config{}), memory.NewRepository())
	_, err := svc.CreatePaymentURL(context.Background(), ports.CreatePaymentInput{Amount: 1000})
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestHandleIPN_Success(t *testing.T) {
	svc, orders, repo := newTestService()
	ctx := context.Background()
	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "o-1"})
	require.NoError(t, err)

	reply := svc.HandleIPN(ctx, ipn("08160000", "85000000", "00"))
	assert.Equal(t, ports.GatewayReply{RspCode: RspSuccess, Message: "Confirm Success"}, reply)
	assert.Equal(t, []string{"o-1"}, orders.paid)

	txn, err := repo.GetByTxnRef(ctx, "08160000")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, txn.Status)

	reply = svc.HandleIPN(ctx, ipn("08160000", "85000000", "00"))
	assert.Equal(t, RspAlreadyConfirmed, reply.RspCode)
	assert.Len(t, orders.paid, 1)
}

// staleReads serves the first snapshot of each transaction, like a read that raced a concurrent settlement.
type staleReads struct {
	ports.TransactionRepository
	seen map[string]*domain.Transaction
}

func (r *staleReads) GetByTxnRef(ctx context.Context, txnRef string) (*domain.Transaction, error) {
	if txn, ok := r.seen[txnRef]; ok {
		return txn.Clone(), nil
	}
	txn, err := r.TransactionRepository.GetByTxnRef(ctx, txnRef)
	if err == nil {
		r.seen[txnRef] = txn.Clone()
	}
	return txn, err
}

func TestHandleIPN_DuplicateAfterStaleReadIsAlreadyConfirmed(t *testing.T) {
	_, orders, repo := newTestService()
	ctx := context.Background()
	stale := &staleReads{TransactionRepository: repo, seen: map[string]*domain.Transaction{}}
	svc := NewService(vnpay.New(vnpay.Config{
		TmnCode:    "DEMO1234",
		HashSecret: secret,
		PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example/vnpay_return",
	}), stale, WithOrderGateway(orders), WithClock(func() time.Time { return clock }))
	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "o-1"})
	require.NoError(t, err)
	_, err = stale.GetByTxnRef(ctx, "08160000")
	require.NoError(t, err)

	assert.Equal(t, RspSuccess, svc.HandleIPN(ctx, ipn("08160000", "85000000", "00")).RspCode)
	assert.Equal(t, RspAlreadyConfirmed, svc.HandleIPN(ctx, ipn("08160000", "85000000", "00")).RspCode)
	assert.Equal(t, []string{"o-1"}, orders.paid)
}

func TestHandleIPN_ConcurrentDuplicatesSettleOnce(t *testing.T) {
	svc, orders, _ := newTestService()
	ctx := context.Background()
	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "o-1"})
	require.NoError(t, err)

	const notifications = 10
	replies := make([]string, notifications)
	var wg sync.WaitGroup
	for i := 0; i < notifications; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			replies[i] = svc.HandleIPN(ctx, ipn("08160000", "85000000", "00")).RspCode
		}()
	}
	wg.Wait()

	counts := map[string]int{}
	for _, code := range replies {
		counts[code]++
	}
	assert.Equal(t, map[string]int{RspSuccess: 1, RspAlreadyConfirmed: notifications - 1}, counts)
	assert.Len(t, orders.paid, 1)
}

func TestHandleIPN_FailedPayment(t *testing.T) {
	svc, orders, repo := newTestService()
	ctx := context.Background()
	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "o-1"})
	require.NoError(t, err)

	reply := svc.HandleIPN(ctx, ipn("08160000", "85000000", "24"))
	assert.Equal(t, RspSuccess, reply.RspCode)
	assert.Empty(t, orders.paid)

	txn, err := repo.GetByTxnRef(ctx, "08160000")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, txn.Status)
}

func TestHandleIPN_ReplyCodes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.CreatePaymentURL(ctx, ports.CreatePaymentInput{OrderID: "o-1"})
	require.NoError(t, err)

	tampered := ipn("08160000", "85000000", "00")
	tampered.Set("vnp_Amount", "100")
	assert.Equal(t, RspInvalidSignature, svc.HandleIPN(ctx, tampered).RspCode)

	assert.Equal(t, RspNotFound, svc.HandleIPN(ctx, ipn("99999999", "85000000", "00")).RspCode)
	assert.Equal(t, RspInvalidAmount, svc.HandleIPN(ctx, ipn("08160000", "100", "00")).RspCode)
}

func TestHandleReturn(t *testing.T) {
	svc, _, _ := newTestService()
	q := ipn("08160000", "85000000", "00")

	result := svc.HandleReturn(context.Background(), q)
	assert.Equal(t, RspSuccess, result.Code)
	assert.Equal(t, vnpay.ResponseMessage("00"), result.Message)
	assert.Equal(t, "08160000", result.Data["vnp_TxnRef"])
	assert.NotContains(t, result.Data, vnpay.ParamSecureHash)

	q.Set("vnp_ResponseCode", "24")
	assert.Equal(t, RspInvalidSignature, svc.HandleReturn(context.Background(), q).Code)
}
