package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
)

type normalizedPlaceOrder struct {
	UserID        string           `json:"userId"`
	Items         []normalizedItem `json:"items"`
	ShipName      string           `json:"shipName"`
	ShipPhone     string           `json:"shipPhone"`
	ShipAddress   string           `json:"shipAddress"`
	ShipEmail     string           `json:"shipEmail"`
	PaymentMethod string           `json:"paymentMethod"`
	PriceShipping int64            `json:"priceShipping"`
	VoucherCode   string           `json:"voucherCode"`
	Note          string           `json:"note"`
}

type normalizedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// FingerprintPlaceOrder hashes the checkout payload, excluding the idempotency key.
// Line order does not change the fingerprint.
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	items := make([]normalizedItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, normalizedItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
			Size:      strings.TrimSpace(item.Size),
			Color:     strings.TrimSpace(item.Color),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		return a.Quantity < b.Quantity
	})
	payload, err := json.Marshal(normalizedPlaceOrder{
		UserID:        input.UserID,
		Items:         items,
		ShipName:      strings.TrimSpace(input.Shipping.Name),
		ShipPhone:     strings.TrimSpace(input.Shipping.Phone),
		ShipAddress:   strings.TrimSpace(input.Shipping.Address),
		ShipEmail:     strings.ToLower(strings.TrimSpace(input.Shipping.Email)),
		PaymentMethod: strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		PriceShipping: input.PriceShipping,
		VoucherCode:   strings.ToUpper(strings.TrimSpace(input.VoucherCode)),
		Note:          strings.TrimSpace(input.Note),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
