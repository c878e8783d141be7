package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/flower-shop-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence persists the order and then sends the confirmation.
// A failed confirmation is logged and does not fail the placement.
func RunOrderPlacementSequence(ctx workflow.Context, input orderports.PlaceOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	confirmOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    4,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed to persist", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", order.ID)

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, confirmOptions), orderactivities.SendOrderConfirmationActivityName, order.ID).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence could not send confirmation", "orderId", order.ID, "error", err)
	}
	return &order, nil
}
