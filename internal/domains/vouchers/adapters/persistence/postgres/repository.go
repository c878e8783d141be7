package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists vouchers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func (r *Repository) Save(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, errors.New("voucher is nil")
	}
	record := toRecord(voucher)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"code", "discount", "status", "deleted", "description",
				"start_date", "end_date", "voucher_price", "applicable_price", "updated_at",
			}),
		}).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ports.ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]*domain.Voucher, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&voucherRecord{})
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}
	if query.Deleted != nil {
		tx = tx.Where("deleted = ?", *query.Deleted)
	}
	if query.Q != "" {
		tx = tx.Where("code LIKE ?", "%"+strings.ToUpper(query.Q)+"%")
	}
	var records []voucherRecord
	if err := tx.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Voucher, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) first(ctx context.Context, cond string, arg any) (*domain.Voucher, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record voucherRecord
	if err := r.db.WithContext(ctx).First(&record, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres voucher repository not configured")
	}
	return nil
}

func toRecord(v *domain.Voucher) voucherRecord {
	return voucherRecord{
		ID:              v.ID,
		Code:            v.Code,
		Discount:        v.Discount,
		Status:          string(v.Status),
		Deleted:         v.Deleted,
		Description:     v.Description,
		StartDate:       timePtr(v.StartDate),
		EndDate:         timePtr(v.EndDate),
		VoucherPrice:    v.VoucherPrice,
		ApplicablePrice: v.ApplicablePrice,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func (r voucherRecord) toDomain() *domain.Voucher {
	v := &domain.Voucher{
		ID:              r.ID,
		Code:            r.Code,
		Discount:        r.Discount,
		Status:          domain.Status(r.Status),
		Deleted:         r.Deleted,
		Description:     r.Description,
		VoucherPrice:    r.VoucherPrice,
		ApplicablePrice: r.ApplicablePrice,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.StartDate != nil {
		v.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		v.EndDate = *r.EndDate
	}
	return v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
