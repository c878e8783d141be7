package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Price     int64  `json:"price"`
	LineTotal int64  `json:"lineTotal"`
	Available bool   `json:"available"`
}

type Cart struct {
	UserID    string    `json:"userId"`
	Products  []Line    `json:"products"`
	Subtotal  int64     `json:"subtotal"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddRequest is the body of POST /cart.
type AddRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// QuantityRequest is the body of PATCH /cart/:productId.
type QuantityRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

func FromView(view *ports.View) Cart {
	if view == nil {
		return Cart{Products: []Line{}}
	}
	lines := make([]Line, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, Line{
			ProductID: l.ProductID,
			Name:      l.Name,
			Image:     l.Image,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
			Price:     l.Price,
			LineTotal: l.LineTotal,
			Available: l.Available,
		})
	}
	return Cart{UserID: view.UserID, Products: lines, Subtotal: view.Subtotal, Count: view.Count, UpdatedAt: view.UpdatedAt}
}

// ToAddInput defaults a missing quantity to one.
func ToAddInput(userID string, req AddRequest) ports.AddItemInput {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	return ports.AddItemInput{UserID: userID, ProductID: req.ProductID, Quantity: qty, Size: req.Size, Color: req.Color}
}

func ToQuantityInput(userID, productID string, req QuantityRequest) ports.UpdateQuantityInput {
	return ports.UpdateQuantityInput{UserID: userID, ProductID: productID, Size: req.Size, Color: req.Color, Quantity: req.Quantity}
}
