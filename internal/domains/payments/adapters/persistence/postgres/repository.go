package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

var _ ports.TransactionRepository = (*Repository)(nil)

// Repository persists gateway transactions in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type transactionRecord struct {
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

func (transactionRecord) TableName() string { return "payment_transactions" }

func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(txn)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateTxnRef
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Settle updates the row only while it is still pending, so concurrent notifications settle once.
func (r *Repository) Settle(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(txn)
	updates := map[string]any{
		"bank_code":      record.BankCode,
		"status":         record.Status,
		"response_code":  record.ResponseCode,
		"transaction_no": record.TransactionNo,
		"paid_at":        record.PaidAt,
		"updated_at":     record.UpdatedAt,
	}
	res := r.db.WithContext(ctx).Model(&transactionRecord{}).
		Where("txn_ref = ? AND status = ?", record.TxnRef, string(domain.StatusPending)).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByTxnRef(ctx, record.TxnRef); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadySettled
	}
	return r.GetByTxnRef(ctx, record.TxnRef)
}

func (r *Repository) GetByTxnRef(ctx context.Context, txnRef string) (*domain.Transaction, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record transactionRecord
	if err := r.db.WithContext(ctx).First(&record, "txn_ref = ?", txnRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres transaction repository not configured")
	}
	return nil
}

func toRecord(t *domain.Transaction) transactionRecord {
	return transactionRecord{
		TxnRef:        t.TxnRef,
		OrderID:       t.OrderID,
		Amount:        t.Amount,
		OrderInfo:     t.OrderInfo,
		BankCode:      t.BankCode,
		Status:        string(t.Status),
		ResponseCode:  t.ResponseCode,
		TransactionNo: t.TransactionNo,
		PaidAt:        t.PaidAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r transactionRecord) toDomain() *domain.Transaction {
	return &domain.Transaction{
		TxnRef:        r.TxnRef,
		OrderID:       r.OrderID,
		Amount:        r.Amount,
		OrderInfo:     r.OrderInfo,
		BankCode:      r.BankCode,
		Status:        domain.Status(r.Status),
		ResponseCode:  r.ResponseCode,
		TransactionNo: r.TransactionNo,
		PaidAt:        r.PaidAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
