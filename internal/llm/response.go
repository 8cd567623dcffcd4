package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reFence = regexp.MustCompile("```json\\s*|\\s*```")
)

// CleanResponse strips reasoning tags and markdown fences, then cuts the text
// down to the outermost JSON object.
func CleanResponse(text string) string {
	text = reThink.ReplaceAllString(text, "")
	text = reFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// ExtractItems turns a raw model response into a validated ItemList:
// clean, sanitize per-item, validate against the schema, decode.
func ExtractItems(raw string, logger *slog.Logger) (ItemList, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleaned := CleanResponse(raw)

	sanitized, dropped, err := sanitizeItems([]byte(cleaned))
	if err != nil {
		return ItemList{}, fmt.Errorf("sanitize items: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.sanitized", "dropped", dropped)
	}

	if err := ValidateJSONAgainstSchema(BuildItemsJSONSchema(nil), sanitized); err != nil {
		return ItemList{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out ItemList
	if err := json.Unmarshal(sanitized, &out); err != nil {
		return ItemList{}, fmt.Errorf("unmarshal items: %w", err)
	}
	return out, nil
}

// Synonyms models emit instead of our keys, including Polish field names.
var itemKeySynonyms = map[string]string{
	"nazwa":     "name",
	"kategoria": "category",
	"jednostka": "unit",
	"ilosc":     "quantity",
	"qty":       "quantity",
	"cena_jedn": "unit_price",
	"price":     "unit_price",
	"suma":      "total",
	"sum":       "total",
}

var allowedItemKeys = map[string]struct{}{
	"name": {}, "category": {}, "unit": {}, "quantity": {}, "unit_price": {}, "total": {},
}

// sanitizeItems normalizes each item so the overall document can validate:
// renames known synonyms, coerces numeric strings, fills derivable amounts,
// maps unknown categories to the fallback, and removes unknown keys.
func sanitizeItems(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	rawItems, ok := m["items"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("response has no 'items' array")
	}

	var dropped []string
	known := make(map[string]struct{}, len(DefaultCategories))
	for _, c := range DefaultCategories {
		known[c] = struct{}{}
	}

	items := make([]any, 0, len(rawItems))
	for _, ri := range rawItems {
		item, ok := ri.(map[string]any)
		if !ok {
			dropped = append(dropped, "item(non-object)")
			continue
		}

		for from, to := range itemKeySynonyms {
			if v, exists := item[from]; exists {
				if _, taken := item[to]; !taken {
					item[to] = v
				}
				delete(item, from)
			}
		}

		for _, k := range []string{"quantity", "unit_price", "total"} {
			if v, exists := item[k]; exists {
				if f, ok := coerceNumber(v); ok {
					item[k] = f
				} else {
					delete(item, k)
					dropped = append(dropped, k)
				}
			}
		}
		if _, exists := item["quantity"]; !exists {
			item["quantity"] = 1.0
		}
		if _, exists := item["total"]; !exists {
			if up, ok := item["unit_price"].(float64); ok {
				qty, _ := item["quantity"].(float64)
				if qty <= 0 {
					qty = 1.0
				}
				item["total"] = up * qty
			}
		}
		if _, exists := item["unit_price"]; !exists {
			if total, ok := item["total"].(float64); ok {
				item["unit_price"] = total
			}
		}

		cat, _ := item["category"].(string)
		cat = strings.ToUpper(strings.TrimSpace(cat))
		if _, ok := known[cat]; !ok {
			if cat != "" {
				dropped = append(dropped, "category("+cat+")")
			}
			cat = FallbackCategory
		}
		item["category"] = cat

		if name, _ := item["name"].(string); strings.TrimSpace(name) == "" {
			dropped = append(dropped, "item(unnamed)")
			continue
		} else {
			item["name"] = strings.TrimSpace(name)
		}

		for k := range item {
			if _, ok := allowedItemKeys[k]; !ok {
				delete(item, k)
				dropped = append(dropped, k+"(unknown)")
			}
		}
		items = append(items, item)
	}

	out, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, dropped, err
	}
	return out, dropped, nil
}

func coerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
