package llm

// BuildItemsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We use it locally to validate the model's item list before
// trusting it.
func BuildItemsJSONSchema(categories []string) map[string]any {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	itemProps := map[string]any{
		"name":       map[string]any{"type": "string", "minLength": 1},
		"category":   map[string]any{"type": "string", "enum": categories},
		"unit":       map[string]any{"type": "string"},
		"quantity":   map[string]any{"type": "number", "minimum": 0.0},
		"unit_price": map[string]any{"type": "number", "minimum": 0.0},
		"total":      map[string]any{"type": "number", "minimum": 0.0},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           itemProps,
					"required":             []string{"name", "category", "total"},
				},
			},
		},
		"required": []string{"items"},
	}
}
