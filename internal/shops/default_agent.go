package shops

import "time"

// DefaultAgent serves shops without a specialized agent. Preprocessing is the
// identity so unknown formats lose no data.
type DefaultAgent struct{}

func (a *DefaultAgent) Preprocess(rawText string) string {
	return rawText
}

func (a *DefaultAgent) DetectDates(text string) []time.Time {
	return detectDates(text, commonDatePatterns)
}
