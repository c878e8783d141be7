package domain

import (
	"errors"
	"strings"
	"time"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 99

var (
	ErrMissingUser        = errors.New("cart owner is required")
	ErrMissingProduct     = errors.New("product id is required")
	ErrQuantityOutOfRange = errors.New("quantity must be between 1 and 99")
	ErrItemNotFound       = errors.New("cart item not found")
)

// Item is one product variant in a cart. Prices are resolved on read.
type Item struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// Key identifies the variant so repeated adds merge into one line.
func (i Item) Key() string {
	return i.ProductID + "|" + i.Size + "|" + i.Color
}

func (i Item) matches(productID, size, color string) bool {
	if i.ProductID != productID {
		return false
	}
	if size != "" && i.Size != size {
		return false
	}
	if color != "" && i.Color != color {
		return false
	}
	return true
}

// Cart belongs to exactly one user.
type Cart struct {
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

func New(userID string, now time.Time) (*Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	return &Cart{UserID: userID, Items: []Item{}, UpdatedAt: now}, nil
}

// Add appends the item or merges it into the line with the same variant.
func (c *Cart) Add(item Item, now time.Time) error {
	item.ProductID = strings.TrimSpace(item.ProductID)
	item.Size = strings.TrimSpace(item.Size)
	item.Color = strings.TrimSpace(item.Color)
	if item.ProductID == "" {
		return ErrMissingProduct
	}
	if !validQuantity(item.Quantity) {
		return ErrQuantityOutOfRange
	}
	for i := range c.Items {
		if c.Items[i].Key() != item.Key() {
			continue
		}
		merged := c.Items[i].Quantity + item.Quantity
		if !validQuantity(merged) {
			return ErrQuantityOutOfRange
		}
		c.Items[i].Quantity = merged
		c.UpdatedAt = now
		return nil
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	return nil
}

// SetQuantity overwrites the quantity of the first line matching the product.
// Empty size or color match any variant.
func (c *Cart) SetQuantity(productID, size, color string, quantity int, now time.Time) error {
	if !validQuantity(quantity) {
		return ErrQuantityOutOfRange
	}
	for i := range c.Items {
		if c.Items[i].matches(productID, size, color) {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = now
			return nil
		}
	}
	return ErrItemNotFound
}

// Remove drops every line matching the product and optional variant.
func (c *Cart) Remove(productID, size, color string, now time.Time) error {
	kept := c.Items[:0]
	removed := false
	for _, item := range c.Items {
		if item.matches(productID, size, color) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return ErrItemNotFound
	}
	c.Items = kept
	c.UpdatedAt = now
	return nil
}

func (c *Cart) Clear(now time.Time) {
	c.Items = []Item{}
	c.UpdatedAt = now
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]Item{}, c.Items...)
	return &clone
}

func validQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}
