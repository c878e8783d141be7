package ports

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable wraps failures of the upstream ML service.
var ErrUnavailable = errors.New("insights service unavailable")

// Product is a catalog entry scored by the ML service.
type Product struct {
	ID                string
	Name              string
	Price             int64
	Image             string
	PredictedQuantity *int
	BoughtCount       *int
}

// Source is the upstream ML service.
type Source interface {
	Recommend(ctx context.Context, userID string) ([]Product, error)
	Popular(ctx context.Context) ([]Product, error)
	Forecast(ctx context.Context) ([]Product, error)
	BusinessStrategy(ctx context.Context) (json.RawMessage, error)
	PredictedLeads(ctx context.Context, page, limit int) (json.RawMessage, error)
	Chat(ctx context.Context, prompt string) (string, error)
}

// Overview bundles the admin dashboard widgets. Parts that failed are nil and
// listed in Errors keyed by part name.
type Overview struct {
	Forecast []Product
	Popular  []Product
	Strategy json.RawMessage
	Errors   map[string]string
}

// Service exposes the cached ML proxies.
type Service interface {
	Source
	Overview(ctx context.Context) (*Overview, error)
}
