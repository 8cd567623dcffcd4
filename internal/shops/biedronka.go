package shops

import (
	"strings"
	"time"
)

// BiedronkaAgent handles the Biedronka receipt format: the item list sits
// between the fiscal receipt marker and the totals block.
type BiedronkaAgent struct{}

func (a *BiedronkaAgent) Preprocess(rawText string) string {
	lines := strings.Split(rawText, "\n")
	var cleaned []string
	started := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		// Item list starts after the fiscal marker.
		if strings.Contains(upper, "PARAGON FISKALNY") {
			started = true
			continue
		}
		// Totals block ends the list.
		if strings.Contains(upper, "SUMA PLN") || strings.Contains(upper, "SPRZEDAZ OPODATKOWANA") {
			break
		}
		if started && line != "" {
			cleaned = append(cleaned, line)
		}
	}

	// Unrecognized layout: never discard data, hand back the input.
	if len(cleaned) == 0 {
		return rawText
	}
	return strings.Join(cleaned, "\n")
}

func (a *BiedronkaAgent) DetectDates(text string) []time.Time {
	return detectDates(text, commonDatePatterns)
}
