package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/flower-shop-api/internal/domains/cart/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts as one row per line in cart_items.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartItemRecord struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:varchar(36)"`
	ProductID string    `gorm:"primaryKey;column:product_id;type:varchar(36)"`
	Size      string    `gorm:"primaryKey;column:size;size:32"`
	Color     string    `gorm:"primaryKey;column:color;size:32"`
	Quantity  int       `gorm:"column:quantity"`
	Position  int       `gorm:"column:position"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

func (r *Repository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	var records []cartItemRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	cart, err := domain.New(userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		cart.Items = append(cart.Items, domain.Item{ProductID: rec.ProductID, Quantity: rec.Quantity, Size: rec.Size, Color: rec.Color})
		if i == 0 || rec.UpdatedAt.After(cart.UpdatedAt) {
			cart.UpdatedAt = rec.UpdatedAt
		}
	}
	return cart, nil
}

// Save replaces every line of the cart in a single transaction.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if cart == nil {
		return errors.New("cart is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", cart.UserID).Delete(&cartItemRecord{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		records := make([]cartItemRecord, 0, len(cart.Items))
		for i, item := range cart.Items {
			records = append(records, cartItemRecord{
				UserID:    cart.UserID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Color:     item.Color,
				Quantity:  item.Quantity,
				Position:  i,
				UpdatedAt: cart.UpdatedAt,
			})
		}
		return tx.Create(&records).Error
	})
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("user_id = ?", strings.TrimSpace(userID)).Delete(&cartItemRecord{}).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}
