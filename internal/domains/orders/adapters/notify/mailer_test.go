package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
)

type recordingSender struct {
	sent []mail.Message
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func sampleOrder(t *testing.T, email string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("3f2a9c1e-0000-4000-8000-000000000000", "u-1",
		[]domain.Item{{ProductID: "p-1", Name: "Red Rose", Quantity: 2, Size: "M", Price: 625000}},
		domain.Shipping{Name: "Lan", Phone: "0900000000", Address: "1 Le Loi", Email: email},
		domain.PaymentCOD, 30000, time.Now())
	require.NoError(t, err)
	return order
}

func TestOrderPlacedSendsReceipt(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewMailNotifier(sender)

	require.NoError(t, notifier.OrderPlaced(context.Background(), sampleOrder(t, "lan@example.com")))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"lan@example.com"}, msg.To)
	assert.Equal(t, "Order 3F2A9C1E received", msg.Subject)
	assert.Contains(t, msg.Body, "Red Rose x2 (M): 1.250.000 ₫")
	assert.Contains(t, msg.Body, "Total: 1.280.000 ₫")
}

func TestOrderPlacedSkipsWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	require.NoError(t, NewMailNotifier(sender).OrderPlaced(context.Background(), sampleOrder(t, "")))
	assert.Empty(t, sender.sent)
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 ₫", formatVND(0))
	assert.Equal(t, "999 ₫", formatVND(999))
	assert.Equal(t, "1.000 ₫", formatVND(1000))
	assert.Equal(t, "-12.345.678 ₫", formatVND(-12345678))
}
