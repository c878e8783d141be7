package ports

import (
	"context"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs order placement, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
}
