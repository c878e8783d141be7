package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. The schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type imageRecord struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

type productRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description"`
	Price       int64          `gorm:"column:price;not null"`
	Category    string         `gorm:"column:category;index"`
	Images      []imageRecord  `gorm:"column:images;serializer:json"`
	Sizes       pq.StringArray `gorm:"column:sizes;type:text[]"`
	Colors      pq.StringArray `gorm:"column:colors;type:text[]"`
	Status      string         `gorm:"column:status;type:varchar(16);index:idx_products_status_deleted"`
	Deleted     bool           `gorm:"column:deleted;index:idx_products_status_deleted"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "price", "category", "images",
				"sizes", "colors", "status", "deleted", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SetDeleted(ctx context.Context, ids []string, deleted bool) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"deleted": deleted, "updated_at": gorm.Expr("NOW()")})
	return result.RowsAffected, result.Error
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) (pagination.Page[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	page := query.Page.Normalize()
	tx := r.db.WithContext(ctx).Model(&productRecord{})
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}
	if query.Deleted != nil {
		tx = tx.Where("deleted = ?", *query.Deleted)
	}
	if query.Q != "" {
		tx = tx.Where("name ILIKE ?", "%"+query.Q+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	order := pagination.ParseSort(page.Sort, ports.SortFields, ports.DefaultSort)
	var records []productRecord
	if err := tx.Order(order.Clause()).Offset(page.Offset()).Limit(page.Limit).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return pagination.New(products, total, page), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	images := make([]imageRecord, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageRecord{URL: img.URL, PublicID: img.PublicID})
	}
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      images,
		Sizes:       pq.StringArray(p.Sizes),
		Colors:      pq.StringArray(p.Colors),
		Status:      string(p.Status),
		Deleted:     p.Deleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	images := make([]domain.Image, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, domain.Image{URL: img.URL, PublicID: img.PublicID})
	}
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Images:      images,
		Sizes:       []string(r.Sizes),
		Colors:      []string(r.Colors),
		Status:      domain.Status(r.Status),
		Deleted:     r.Deleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
