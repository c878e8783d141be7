// Package ml adapts the ML HTTP client to the insights Source port.
package ml

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	mlclient "github.com/Apurer/flower-shop-api/internal/clients/http/ml"
	"github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
)

var _ ports.Source = (*Source)(nil)

type Source struct {
	client *mlclient.Client
}

func NewSource(client *mlclient.Client) *Source {
	return &Source{client: client}
}

func (s *Source) Recommend(ctx context.Context, userID string) ([]ports.Product, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	products, err := s.client.Recommend(ctx, userID)
	return toProducts(products), err
}

func (s *Source) Popular(ctx context.Context) ([]ports.Product, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	products, err := s.client.Popular(ctx)
	return toProducts(products), err
}

func (s *Source) Forecast(ctx context.Context) ([]ports.Product, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	products, err := s.client.Forecast(ctx)
	return toProducts(products), err
}

func (s *Source) BusinessStrategy(ctx context.Context) (json.RawMessage, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	return s.client.BusinessStrategy(ctx)
}

func (s *Source) PredictedLeads(ctx context.Context, page, limit int) (json.RawMessage, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	return s.client.PredictedLeads(ctx, page, limit)
}

func (s *Source) Chat(ctx context.Context, prompt string) (string, error) {
	if err := s.ensureClient(); err != nil {
		return "", err
	}
	reply, err := s.client.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (s *Source) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("ml client not configured")
	}
	return nil
}

func toProducts(in []mlclient.Product) []ports.Product {
	if in == nil {
		return nil
	}
	out := make([]ports.Product, 0, len(in))
	for _, p := range in {
		out = append(out, ports.Product{
			ID:                p.ID,
			Name:              p.Name,
			Price:             int64(math.Round(p.Price)),
			Image:             p.Image,
			PredictedQuantity: p.PredictedQuantity,
			BoughtCount:       p.BoughtCount,
		})
	}
	return out
}
