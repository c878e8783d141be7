// Package notify sends order confirmations by e-mail.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/mail"
)

var _ ports.Notifier = (*MailNotifier)(nil)

// MailNotifier renders a plain-text receipt and hands it to the mail sender.
type MailNotifier struct {
	sender mail.Sender
}

func NewMailNotifier(sender mail.Sender) *MailNotifier {
	return &MailNotifier{sender: sender}
}

// OrderPlaced mails the receipt. Orders without a contact e-mail are skipped.
func (n *MailNotifier) OrderPlaced(ctx context.Context, order *domain.Order) error {
	if n == nil || n.sender == nil || order == nil {
		return nil
	}
	to := strings.TrimSpace(order.Shipping.Email)
	if to == "" {
		return nil
	}
	return n.sender.Send(ctx, mail.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Order %s received", shortID(order.ID)),
		Body:    RenderReceipt(order),
	})
}

// RenderReceipt formats the order as a plain-text receipt.
func RenderReceipt(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", order.Shipping.Name)
	fmt.Fprintf(&b, "Thank you for your order %s. We will contact you at %s before delivery.\n\n", shortID(order.ID), order.Shipping.Phone)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d", item.Name, item.Quantity)
		if item.Size != "" || item.Color != "" {
			fmt.Fprintf(&b, " (%s)", strings.Trim(item.Size+" "+item.Color, " "))
		}
		fmt.Fprintf(&b, ": %s\n", formatVND(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatVND(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Voucher %s: -%s\n", order.VoucherCode, formatVND(order.Discount))
	}
	fmt.Fprintf(&b, "Shipping: %s\n", formatVND(order.PriceShipping))
	fmt.Fprintf(&b, "Total: %s\n", formatVND(order.Total))
	fmt.Fprintf(&b, "Payment: %s\n\nDeliver to: %s\n", order.PaymentMethod, order.Shipping.Address)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatVND groups thousands with dots, e.g. 1.250.000 ₫.
func formatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var out []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + " ₫"
}
