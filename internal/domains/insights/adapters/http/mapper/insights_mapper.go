package mapper

import (
	"encoding/json"

	"github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
)

type Product struct {
	ID                string `json:"_id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	Image             string `json:"image"`
	PredictedQuantity *int   `json:"predicted_quantity,omitempty"`
	BoughtCount       *int   `json:"bought_count,omitempty"`
}

type Overview struct {
	Forecast         []Product         `json:"forecast"`
	Popular          []Product         `json:"popular"`
	BusinessStrategy json.RawMessage   `json:"businessStrategy"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// ChatRequest is the body of POST /chatbot.
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

func FromProducts(in []ports.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, Product{
			ID:                p.ID,
			Name:              p.Name,
			Price:             p.Price,
			Image:             p.Image,
			PredictedQuantity: p.PredictedQuantity,
			BoughtCount:       p.BoughtCount,
		})
	}
	return out
}

// FromOverview renders failed parts as empty lists and a null strategy.
func FromOverview(o *ports.Overview) Overview {
	if o == nil {
		return Overview{Forecast: []Product{}, Popular: []Product{}, BusinessStrategy: json.RawMessage("null")}
	}
	strategy := o.Strategy
	if len(strategy) == 0 {
		strategy = json.RawMessage("null")
	}
	out := Overview{
		Forecast:         FromProducts(o.Forecast),
		Popular:          FromProducts(o.Popular),
		BusinessStrategy: strategy,
	}
	if len(o.Errors) > 0 {
		out.Errors = o.Errors
	}
	return out
}
