package fuzzy

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Result is the best approximate match for a single line.
type Result struct {
	Pattern string
	Score   int // 0..100
}

// Matcher scores receipt lines against taxonomy patterns using partial-ratio
// similarity. Small batches run in the caller's goroutine; large batches fan
// out across a bounded worker pool.
type Matcher struct {
	logger            *slog.Logger
	workers           int
	parallelThreshold int
}

type Option func(*Matcher)

func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

func WithParallelThreshold(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.parallelThreshold = n
		}
	}
}

func NewMatcher(logger *slog.Logger, opts ...Option) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Matcher{
		logger:            logger,
		workers:           4,
		parallelThreshold: 15,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// MatchOne returns the best-scoring pattern for a line, or false when the
// pattern list is empty.
func (m *Matcher) MatchOne(line string, patterns []string) (Result, bool) {
	if len(patterns) == 0 {
		return Result{}, false
	}
	upper := strings.ToUpper(line)
	best := Result{Score: -1}
	for _, p := range patterns {
		if score := fuzzywuzzy.PartialRatio(upper, p); score > best.Score {
			best = Result{Pattern: p, Score: score}
		}
	}
	return best, true
}

// MatchBatch scores every line and returns results aligned with input order.
// A nil element means no match was found for that line. A failure scoring one
// line degrades that line only; sibling lines are unaffected.
func (m *Matcher) MatchBatch(ctx context.Context, lines, patterns []string) []*Result {
	if len(lines) == 0 {
		return nil
	}
	results := make([]*Result, len(lines))

	if !m.usesWorkerPool(len(lines)) {
		for i, line := range lines {
			results[i] = m.matchSafe(line, patterns)
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.matchSafe(lines[i], patterns)
			}
		}()
	}

	for i := range lines {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Remaining lines stay unmatched; workers drain and exit.
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// usesWorkerPool reports whether a batch of n lines is dispatched to the
// worker pool instead of running inline.
func (m *Matcher) usesWorkerPool(n int) bool {
	return n >= m.parallelThreshold
}

// matchSafe isolates a single line's failure to a no-match result.
func (m *Matcher) matchSafe(line string, patterns []string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("fuzzy.match.panic", "line_len", len(line), "panic", r)
			res = nil
		}
	}()
	best, ok := m.MatchOne(line, patterns)
	if !ok {
		return nil
	}
	return &best
}
