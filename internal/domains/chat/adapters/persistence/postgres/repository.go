package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists chat messages in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type messageRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	RoomID    string    `gorm:"column:room_id;size:64;index:idx_messages_room_created,priority:1"`
	SenderID  string    `gorm:"column:sender_id;type:varchar(36)"`
	Content   string    `gorm:"column:content;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_messages_room_created,priority:2"`
}

func (messageRecord) TableName() string { return "messages" }

func (r *Repository) Save(ctx context.Context, msg *domain.Message) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}
	rec := messageRecord{ID: msg.ID, RoomID: msg.RoomID, SenderID: msg.SenderID, Content: msg.Content, CreatedAt: msg.CreatedAt}
	return r.db.WithContext(ctx).Create(&rec).Error
}

// History reads the newest rows first and reverses them into chronological order.
func (r *Repository) History(ctx context.Context, roomID string, limit int) ([]*domain.Message, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []messageRecord
	tx := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Message, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = &domain.Message{
			ID:        rec.ID,
			RoomID:    rec.RoomID,
			SenderID:  rec.SenderID,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
		}
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres chat repository not configured")
	}
	return nil
}
