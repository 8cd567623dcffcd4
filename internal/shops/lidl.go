package shops

import (
	"strings"
	"time"
)

// LidlAgent handles the Lidl receipt format: mostly clean line structure with
// loyalty-program noise interleaved.
type LidlAgent struct{}

func (a *LidlAgent) Preprocess(rawText string) string {
	lines := strings.Split(rawText, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(strings.ToUpper(line), "LIDL PLUS") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

func (a *LidlAgent) DetectDates(text string) []time.Time {
	return detectDates(text, commonDatePatterns)
}
