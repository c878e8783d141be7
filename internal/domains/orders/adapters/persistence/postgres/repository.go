package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Lines are stored as a JSON snapshot
// because they never change after checkout.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type itemRecord struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Price     int64  `json:"price"`
}

type orderRecord struct {
	ID            string       `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID        string       `gorm:"column:user_id;type:varchar(36);index"`
	Status        string       `gorm:"column:status;type:varchar(16);index"`
	Note          string       `gorm:"column:note"`
	PaymentMethod string       `gorm:"column:payment_method;type:varchar(16)"`
	Items         []itemRecord `gorm:"column:items;serializer:json"`
	ShipName      string       `gorm:"column:ship_name"`
	ShipPhone     string       `gorm:"column:ship_phone"`
	ShipAddress   string       `gorm:"column:ship_address"`
	ShipEmail     string       `gorm:"column:ship_email"`
	PriceShipping int64        `gorm:"column:price_shipping"`
	VoucherCode   string       `gorm:"column:voucher_code;size:64"`
	Discount      int64        `gorm:"column:discount"`
	Subtotal      int64        `gorm:"column:subtotal"`
	Total         int64        `gorm:"column:total"`
	Paid          bool         `gorm:"column:paid"`
	PaidAt        *time.Time   `gorm:"column:paid_at"`
	ReasonCancel  string       `gorm:"column:reason_cancel"`
	CreatedAt     time.Time    `gorm:"column:created_at;index"`
	UpdatedAt     time.Time    `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "note", "voucher_code", "discount", "subtotal", "total",
				"paid", "paid_at", "reason_cancel", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	page := query.Page.Normalize()
	tx := r.db.WithContext(ctx).Model(&orderRecord{})
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}
	if query.UserID != "" {
		tx = tx.Where("user_id = ?", query.UserID)
	}
	if query.Q != "" {
		like := "%" + query.Q + "%"
		tx = tx.Where("ship_name ILIKE ? OR ship_phone LIKE ? OR ship_email ILIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	order := pagination.ParseSort(page.Sort, ports.SortFields, ports.DefaultSort)
	var records []orderRecord
	if err := tx.Order(order.Clause()).Offset(page.Offset()).Limit(page.Limit).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return pagination.New(orders, total, page), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	items := make([]itemRecord, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, itemRecord(item))
	}
	return orderRecord{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		Note:          o.Note,
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
		ShipName:      o.Shipping.Name,
		ShipPhone:     o.Shipping.Phone,
		ShipAddress:   o.Shipping.Address,
		ShipEmail:     o.Shipping.Email,
		PriceShipping: o.PriceShipping,
		VoucherCode:   o.VoucherCode,
		Discount:      o.Discount,
		Subtotal:      o.Subtotal,
		Total:         o.Total,
		Paid:          o.Paid,
		PaidAt:        o.PaidAt,
		ReasonCancel:  o.ReasonCancel,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.Item(item))
	}
	return &domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		Status:        domain.Status(r.Status),
		Note:          r.Note,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Items:         items,
		Shipping: domain.Shipping{
			Name:    r.ShipName,
			Phone:   r.ShipPhone,
			Address: r.ShipAddress,
			Email:   r.ShipEmail,
		},
		PriceShipping: r.PriceShipping,
		VoucherCode:   r.VoucherCode,
		Discount:      r.Discount,
		Subtotal:      r.Subtotal,
		Total:         r.Total,
		Paid:          r.Paid,
		PaidAt:        r.PaidAt,
		ReasonCancel:  r.ReasonCancel,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
