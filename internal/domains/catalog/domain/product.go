package domain

import (
	"errors"
	"strings"
	"time"
)

// Status controls whether a product is offered in the storefront.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrNoImages      = errors.New("product needs at least one image")
	ErrInvalidStatus = errors.New("product status is invalid")
	ErrInvalidImage  = errors.New("product image url is required")
)

// Image references an asset already uploaded to the media host.
type Image struct {
	URL      string
	PublicID string
}

// Product is the catalog aggregate.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Category    string
	Images      []Image
	Sizes       []string
	Colors      []string
	Status      Status
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds an active product and validates it.
func NewProduct(id, name string, price int64, images []Image) (*Product, error) {
	p := &Product{
		ID:     id,
		Name:   strings.TrimSpace(name),
		Price:  price,
		Images: images,
		Status: StatusActive,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if len(p.Images) == 0 {
		return ErrNoImages
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			return ErrInvalidImage
		}
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return err
	}
	return nil
}

// Purchasable reports whether the product can be put into an order or a cart.
func (p *Product) Purchasable() bool {
	return p.Status == StatusActive && !p.Deleted
}

// Thumbnail returns the first image URL, if any.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Clone returns a deep copy safe to hand out of a repository.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Images = append([]Image(nil), p.Images...)
	c.Sizes = append([]string(nil), p.Sizes...)
	c.Colors = append([]string(nil), p.Colors...)
	return &c
}

// ParseStatus accepts the known statuses; empty defaults to active.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", ErrInvalidStatus
	}
}
