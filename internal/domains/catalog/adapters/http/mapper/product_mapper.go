package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
)

// Image is the wire shape of a product image.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

// Product is the storefront/admin representation.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"nameProduct"`
	Description string    `json:"desc"`
	Price       int64     `json:"price"`
	Category    string    `json:"category,omitempty"`
	Images      []Image   `json:"images"`
	Sizes       []string  `json:"size"`
	Colors      []string  `json:"color"`
	Status      string    `json:"status"`
	Deleted     bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductForm is accepted by create; on update every field is optional.
type ProductForm struct {
	Name        *string   `json:"nameProduct"`
	Description *string   `json:"desc"`
	Price       *int64    `json:"price"`
	Category    *string   `json:"category"`
	Images      *[]Image  `json:"images"`
	Sizes       *[]string `json:"size"`
	Colors      *[]string `json:"color"`
	Status      *string   `json:"status"`
}

// SoftDeleteMany is the body of the bulk trash endpoint.
type SoftDeleteMany struct {
	IDs     []string `json:"id"`
	Deleted *bool    `json:"deleted"`
}

func FromDomain(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	images := make([]Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, Image{URL: img.URL, PublicID: img.PublicID})
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      images,
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		Status:      string(p.Status),
		Deleted:     p.Deleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDomainList(products []*domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomain(p))
	}
	return out
}

// ToCreateInput maps a form onto the create use case.
func ToCreateInput(form ProductForm) ports.CreateProductInput {
	input := ports.CreateProductInput{
		Name:        deref(form.Name),
		Description: deref(form.Description),
		Category:    deref(form.Category),
		Status:      deref(form.Status),
	}
	if form.Price != nil {
		input.Price = *form.Price
	}
	if form.Images != nil {
		input.Images = toDomainImages(*form.Images)
	}
	if form.Sizes != nil {
		input.Sizes = *form.Sizes
	}
	if form.Colors != nil {
		input.Colors = *form.Colors
	}
	return input
}

// ToUpdateInput maps a form onto a partial update.
func ToUpdateInput(id string, form ProductForm) ports.UpdateProductInput {
	input := ports.UpdateProductInput{
		ID:          id,
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Sizes:       form.Sizes,
		Colors:      form.Colors,
		Status:      form.Status,
	}
	if form.Images != nil {
		images := toDomainImages(*form.Images)
		input.Images = &images
	}
	return input
}

func toDomainImages(images []Image) []domain.Image {
	out := make([]domain.Image, 0, len(images))
	for _, img := range images {
		out = append(out, domain.Image{URL: img.URL, PublicID: img.PublicID})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
