// Package migrations owns the relational schema. Adapters never run AutoMigrate themselves.
package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. The casbin_rule table is
// created by the casbin gorm adapter.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(Models()...)
}

// Models lists the schema records in dependency-free order.
func Models() []any {
	return []any{
		&productRecord{},
		&voucherRecord{},
		&orderRecord{},
		&idempotencyRecord{},
		&paymentTransactionRecord{},
		&userRecord{},
		&resetTokenRecord{},
		&cartItemRecord{},
		&messageRecord{},
	}
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description"`
	Price       int64          `gorm:"column:price;not null"`
	Category    string         `gorm:"column:category;index"`
	Images      string         `gorm:"column:images;type:jsonb"`
	Sizes       pq.StringArray `gorm:"column:sizes;type:text[]"`
	Colors      pq.StringArray `gorm:"column:colors;type:text[]"`
	Status      string         `gorm:"column:status;type:varchar(16);index:idx_products_status_deleted"`
	Deleted     bool           `gorm:"column:deleted;index:idx_products_status_deleted"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Voucher schema mirrors the vouchers Postgres adapter.
type voucherRecord struct {
	ID              string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	Code            string     `gorm:"column:code;size:64;uniqueIndex"`
	Discount        int        `gorm:"column:discount"`
	Status          string     `gorm:"column:status;type:varchar(16);index"`
	Deleted         bool       `gorm:"column:deleted;index"`
	Description     string     `gorm:"column:description"`
	StartDate       *time.Time `gorm:"column:start_date"`
	EndDate         *time.Time `gorm:"column:end_date"`
	VoucherPrice    int64      `gorm:"column:voucher_price"`
	ApplicablePrice int64      `gorm:"column:applicable_price"`
	CreatedAt       time.Time  `gorm:"column:created_at;index"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (voucherRecord) TableName() string { return "vouchers" }

// Order schema mirrors the orders Postgres adapter. Line items are a jsonb snapshot.
type orderRecord struct {
	ID            string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID        string     `gorm:"column:user_id;type:varchar(36);index"`
	Status        string     `gorm:"column:status;type:varchar(16);index"`
	Note          string     `gorm:"column:note"`
	PaymentMethod string     `gorm:"column:payment_method;type:varchar(16)"`
	Items         string     `gorm:"column:items;type:jsonb"`
	ShipName      string     `gorm:"column:ship_name"`
	ShipPhone     string     `gorm:"column:ship_phone"`
	ShipAddress   string     `gorm:"column:ship_address"`
	ShipEmail     string     `gorm:"column:ship_email"`
	PriceShipping int64      `gorm:"column:price_shipping"`
	VoucherCode   string     `gorm:"column:voucher_code;size:64"`
	Discount      int64      `gorm:"column:discount"`
	Subtotal      int64      `gorm:"column:subtotal"`
	Total         int64      `gorm:"column:total"`
	Paid          bool       `gorm:"column:paid"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	ReasonCancel  string     `gorm:"column:reason_cancel"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(36)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Payment transaction schema mirrors the payments Postgres adapter.
type paymentTransactionRecord struct {
	TxnRef        string     `gorm:"primaryKey;column:txn_ref;size:64"`
	OrderID       string     `gorm:"column:order_id;type:varchar(36);index"`
	Amount        int64      `gorm:"column:amount"`
	OrderInfo     string     `gorm:"column:order_info"`
	BankCode      string     `gorm:"column:bank_code;size:32"`
	Status        string     `gorm:"column:status;type:varchar(16);index"`
	ResponseCode  string     `gorm:"column:response_code;size:8"`
	TransactionNo string     `gorm:"column:transaction_no;size:64"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (paymentTransactionRecord) TableName() string { return "payment_transactions" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Email        string    `gorm:"column:email;size:320;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	FullName     string    `gorm:"column:full_name"`
	Phone        string    `gorm:"column:phone;size:32"`
	Address      string    `gorm:"column:address"`
	Avatar       string    `gorm:"column:avatar"`
	Role         string    `gorm:"column:role;type:varchar(16);index"`
	Status       string    `gorm:"column:status;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

type resetTokenRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (resetTokenRecord) TableName() string { return "password_reset_tokens" }

// Cart schema mirrors the cart Postgres adapter: one row per line.
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

type messageRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	RoomID    string    `gorm:"column:room_id;size:64;index:idx_messages_room_created,priority:1"`
	SenderID  string    `gorm:"column:sender_id;type:varchar(36)"`
	Content   string    `gorm:"column:content;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_messages_room_created,priority:2"`
}

func (messageRecord) TableName() string { return "messages" }
