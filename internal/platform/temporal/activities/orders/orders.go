package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName prices and stores the order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// SendOrderConfirmationActivityName mails the receipt for a stored order.
	SendOrderConfirmationActivityName = "orders.activities.SendOrderConfirmation"

	// ErrorTypeInvalidInput marks non-retryable validation failures.
	ErrorTypeInvalidInput = "orders.InvalidInput"
	// ErrorTypeIdempotencyConflict marks an idempotency key reused with a different order.
	ErrorTypeIdempotencyConflict = "orders.IdempotencyConflict"
)

// Activities groups the order placement activities.
type Activities struct {
	service orderports.Service
}

func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder stores the order. Validation failures are not retried.
func (a *Activities) PersistOrder(ctx context.Context, input orderports.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "userId", input.UserID, "lines", len(input.Items))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "userId", input.UserID, "error", err)
		switch {
		case errors.Is(err, orderports.ErrIdempotencyConflict):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeIdempotencyConflict, err)
		case errors.Is(err, orderapp.ErrInvalidInput):
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
		}
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID, "total", order.Total)
	return order, nil
}

// SendOrderConfirmation mails the receipt. A prior successful attempt is recorded in the heartbeat.
func (a *Activities) SendOrderConfirmation(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return errors.New("order confirmation activity not initialized")
	}
	var hb confirmationHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Sent {
		logger.Info("SendOrderConfirmation already sent in prior attempt; skipping", "orderId", orderID)
		return nil
	}
	if err := a.service.SendConfirmation(ctx, orderID); err != nil {
		logger.Error("SendOrderConfirmation activity failed", "orderId", orderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, confirmationHeartbeat{Sent: true})
	logger.Info("SendOrderConfirmation activity completed", "orderId", orderID)
	return nil
}

type confirmationHeartbeat struct {
	Sent bool
}
