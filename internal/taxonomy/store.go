package taxonomy

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pawelks/receipt-resolver/internal/entity"
)

// Store holds the static product taxonomy: known OCR fragments mapped to
// canonical product metadata. Loaded once per process and read-only after.
type Store struct {
	logger   *slog.Logger
	entries  map[string]entity.TaxonomyEntry
	patterns []string
}

type taxonomyFile struct {
	Mappings []entity.TaxonomyEntry `json:"mappings"`
}

// Load reads the taxonomy file at path. A missing or malformed file degrades
// to an empty store with a logged warning; matching then becomes a guaranteed
// miss rather than a fatal error.
func Load(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		logger:  logger,
		entries: make(map[string]entity.TaxonomyEntry),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("taxonomy.load.failed", "path", path, "error", err)
		return s
	}
	var file taxonomyFile
	if err := json.Unmarshal(raw, &file); err != nil {
		logger.Warn("taxonomy.load.malformed", "path", path, "error", err)
		return s
	}

	// Longest pattern first so greedy matching prefers the most specific
	// known fragment. Stable sort keeps file order for equal lengths.
	sort.SliceStable(file.Mappings, func(i, j int) bool {
		return len(file.Mappings[i].OCRPattern) > len(file.Mappings[j].OCRPattern)
	})

	for _, m := range file.Mappings {
		key := strings.ToUpper(strings.TrimSpace(m.OCRPattern))
		if key == "" {
			continue
		}
		if _, dup := s.entries[key]; dup {
			continue
		}
		m.OCRPattern = key
		s.entries[key] = m
		s.patterns = append(s.patterns, key)
	}

	logger.Info("taxonomy.load.ok", "path", path, "patterns", len(s.patterns))
	return s
}

// Patterns returns the known OCR patterns ordered by descending length.
// Callers must not modify the returned slice.
func (s *Store) Patterns() []string {
	return s.patterns
}

// MetadataFor returns the taxonomy entry for a pattern, case-insensitively.
func (s *Store) MetadataFor(pattern string) (entity.TaxonomyEntry, bool) {
	e, ok := s.entries[strings.ToUpper(strings.TrimSpace(pattern))]
	return e, ok
}

// Len reports the number of loaded patterns.
func (s *Store) Len() int {
	return len(s.patterns)
}
