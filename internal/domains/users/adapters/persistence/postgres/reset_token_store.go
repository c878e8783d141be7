package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	userports "github.com/Apurer/flower-shop-api/internal/domains/users/ports"
)

// ResetTokenStore persists issued password reset tokens in PostgreSQL.
type ResetTokenStore struct {
	db *gorm.DB
}

// NewResetTokenStore wires a PostgreSQL-backed store. Caller owns DB lifecycle.
func NewResetTokenStore(db *gorm.DB) *ResetTokenStore {
	return &ResetTokenStore{db: db}
}

type resetTokenRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (resetTokenRecord) TableName() string { return "password_reset_tokens" }

func (s *ResetTokenStore) Save(ctx context.Context, token domain.ResetToken) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(token.ID) == "" || strings.TrimSpace(token.UserID) == "" {
		return errors.New("token id and user id are required")
	}
	rec := resetTokenRecord{ID: token.ID, UserID: token.UserID, ExpiresAt: token.ExpiresAt, CreatedAt: token.CreatedAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at"}),
		}).
		Create(&rec).Error
}

// Consume deletes the token with RETURNING so two concurrent resets cannot both succeed.
func (s *ResetTokenStore) Consume(ctx context.Context, id string) (*domain.ResetToken, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var deleted []resetTokenRecord
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", strings.TrimSpace(id)).
		Delete(&deleted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(deleted) == 0 {
		return nil, userports.ErrResetTokenNotFound
	}
	rec := deleted[0]
	return &domain.ResetToken{ID: rec.ID, UserID: rec.UserID, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt}, nil
}

// PurgeExpired removes all expired tokens. Use for housekeeping or cron.
func (s *ResetTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&resetTokenRecord{})
	return res.RowsAffected, res.Error
}

func (s *ResetTokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres reset token store not configured")
	}
	return nil
}

var _ userports.ResetTokenStore = (*ResetTokenStore)(nil)
