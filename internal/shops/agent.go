package shops

import (
	"regexp"
	"sort"
	"time"
)

// LineAgent is the per-shop preprocessing capability. Preprocess strips
// boilerplate around the item list; DetectDates extracts purchase dates.
// Both are total: unrecognized input passes through unchanged.
type LineAgent interface {
	Preprocess(rawText string) string
	DetectDates(text string) []time.Time
}

type datePattern struct {
	re     *regexp.Regexp
	layout string
}

var commonDatePatterns = []datePattern{
	{regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), "2006-01-02"},
	{regexp.MustCompile(`\b\d{2}-\d{2}-\d{4}\b`), "02-01-2006"},
	{regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`), "02.01.2006"},
	{regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`), "02/01/2006"},
}

// detectDates returns every parseable date in order of appearance in the
// text, regardless of which pattern matched it.
func detectDates(text string, patterns []datePattern) []time.Time {
	type hit struct {
		offset int
		when   time.Time
	}
	var hits []hit
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			if t, err := time.ParseInLocation(p.layout, raw, time.UTC); err == nil {
				hits = append(hits, hit{offset: loc[0], when: t})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })
	out := make([]time.Time, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.when)
	}
	return out
}
