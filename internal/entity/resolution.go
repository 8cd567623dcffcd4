package entity

import "time"

// Resolution sources, in ascending order of cost.
const (
	SourceCache = "cache"
	SourceFuzzy = "fuzzy"
	SourceAI    = "ai"
)

// ProductMatch is a resolved canonical product for a single receipt line.
// Instances are re-derived, never mutated in place.
type ProductMatch struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Unit       string  `json:"unit"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// TaxonomyEntry maps a known OCR fragment to canonical product metadata.
type TaxonomyEntry struct {
	OCRPattern string `json:"ocr"`
	Name       string `json:"name"`
	Category   string `json:"cat"`
	Unit       string `json:"unit"`
}

// ResolvedLineItem is one receipt line folded into its resolution result.
type ResolvedLineItem struct {
	RawLine   string       `json:"raw_line,omitempty"`
	Match     ProductMatch `json:"match"`
	Quantity  float64      `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	Total     float64      `json:"total"`
}

// ResolveStats summarizes how a single resolve call was served.
type ResolveStats struct {
	Elapsed      time.Duration `json:"elapsed_ns"`
	CacheHitRate float64       `json:"cache_hit_rate"`
	UsedAI       bool          `json:"used_ai"`
}

// ResolvedReceipt is the result of one resolve call.
type ResolvedReceipt struct {
	Shop        string             `json:"shop"`
	Date        *time.Time         `json:"date,omitempty"`
	Items       []ResolvedLineItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Stats       ResolveStats       `json:"stats"`
}
