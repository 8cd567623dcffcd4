package llm

import "context"

// Generator is the opaque text-completion boundary the pipeline depends on.
// Implementations must honor ctx cancellation so an expired AI call is
// abandoned, not merely ignored.
type Generator interface {
	Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

// Item is one receipt line item as reported by the model.
type Item struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Unit      string  `json:"unit,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// ItemList is the normalized shape we want from the model.
type ItemList struct {
	Items []Item `json:"items"`
}
