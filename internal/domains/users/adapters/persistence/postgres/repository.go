package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save inserts or updates a user keyed by id. A clash on email maps to ErrDuplicateEmail.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := user.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "full_name", "phone", "address", "avatar", "role", "status", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", strings.TrimSpace(id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (r *Repository) first(ctx context.Context, where string, arg string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, where, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.User], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	tx := r.db.WithContext(ctx).Model(&userRecord{})
	if query.Role != nil {
		tx = tx.Where("role = ?", string(*query.Role))
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}
	if q := strings.TrimSpace(query.Q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("email ILIKE ? OR full_name ILIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	order := pagination.ParseSort(query.Page.Sort, ports.SortFields, ports.DefaultSort)
	var records []userRecord
	if err := tx.Order(order.Clause()).Offset(query.Page.Offset()).Limit(query.Page.Normalize().Limit).Find(&records).Error; err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return pagination.New(users, total, query.Page), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Address:      user.Address,
		Avatar:       user.Avatar,
		Role:         string(user.Role),
		Status:       string(user.Status),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FullName:     r.FullName,
		Phone:        r.Phone,
		Address:      r.Address,
		Avatar:       r.Avatar,
		Role:         domain.Role(r.Role),
		Status:       domain.Status(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
