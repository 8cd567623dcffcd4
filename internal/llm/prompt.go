package llm

import "strings"

// Categories the model may assign. Product taxonomy entries use the same set.
var DefaultCategories = []string{
	"SPOŻYWCZE", "NABIAŁ", "OWOCE_WARZYWA", "MIĘSO", "PIECZYWO", "CHEMIA", "ALKOHOL", "INNE",
}

// FallbackCategory is used whenever the model or taxonomy reports nothing usable.
const FallbackCategory = "INNE"

// BuildSystemPrompt composes the system message: strict JSON contract plus the
// category enum.
func BuildSystemPrompt(shop string, categories []string) string {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	parts := []string{
		"You are a receipt parser for the shop " + shop + ".",
		"Return ONLY JSON of the shape {\"items\": [{\"name\": string, \"category\": string, \"quantity\": number, \"unit_price\": number, \"total\": number}]}.",
		"The 'category' MUST be exactly one of: " + strings.Join(categories, ", ") + ". If uncertain, choose '" + FallbackCategory + "'.",
		"Prices use a dot as the decimal separator.",
		"Never output null. If a field is unknown, use quantity 1 and repeat the line price in both unit_price and total.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the shop and the OCR text, truncated so a garbage
// scan cannot blow the context window.
func BuildUserPrompt(shop, ocrText string) string {
	var b strings.Builder
	b.WriteString("Shop: ")
	b.WriteString(shop)
	b.WriteString("\nOCR text (first ~3k chars):\n")
	ocr := strings.TrimSpace(ocrText)
	if len(ocr) > 3000 {
		b.WriteString(ocr[:3000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(ocr)
	}
	return b.String()
}
