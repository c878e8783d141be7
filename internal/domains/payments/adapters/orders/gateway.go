package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

var _ ports.OrderGateway = (*Gateway)(nil)

// Gateway exposes the orders service to the payments context.
type Gateway struct {
	orders orderports.Service
}

func NewGateway(orders orderports.Service) *Gateway {
	return &Gateway{orders: orders}
}

func (g *Gateway) PayableOrder(ctx context.Context, id string) (*ports.PayableOrder, error) {
	order, err := g.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrOrderNotFound, id)
		}
		return nil, err
	}
	return &ports.PayableOrder{
		ID:        order.ID,
		Total:     order.Total,
		Paid:      order.Paid,
		Cancelled: order.Status == orderdomain.StatusCancelled,
	}, nil
}

// MarkPaid settles the order. An order already marked paid is not an error.
func (g *Gateway) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	_, err := g.orders.MarkPaid(ctx, id, paidAt)
	if err != nil && errors.Is(err, orderapp.ErrConflict) && errors.Is(err, orderdomain.ErrAlreadyPaid) {
		return nil
	}
	if errors.Is(err, orderports.ErrNotFound) {
		return fmt.Errorf("%w: %s", ports.ErrOrderNotFound, id)
	}
	return err
}
