package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTaxonomy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOrdersPatternsByLengthDescending(t *testing.T) {
	path := writeTaxonomy(t, `{"mappings": [
		{"ocr": "CHLEB", "name": "Chleb", "cat": "pieczywo", "unit": "szt"},
		{"ocr": "MLEKO 3.2% 1L", "name": "Mleko", "cat": "nabiał", "unit": "l"},
		{"ocr": "CHLEB ZYTNI", "name": "Chleb żytni", "cat": "pieczywo", "unit": "szt"}
	]}`)

	s := Load(path, nil)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"MLEKO 3.2% 1L", "CHLEB ZYTNI", "CHLEB"}, s.Patterns())
}

func TestLoadUppercasesPatterns(t *testing.T) {
	path := writeTaxonomy(t, `{"mappings": [
		{"ocr": "mleko uht", "name": "Mleko UHT", "cat": "nabiał", "unit": "l"}
	]}`)

	s := Load(path, nil)
	assert.Equal(t, []string{"MLEKO UHT"}, s.Patterns())
}

func TestMetadataForIsCaseInsensitive(t *testing.T) {
	path := writeTaxonomy(t, `{"mappings": [
		{"ocr": "MLEKO 3.2% 1L", "name": "Mleko", "cat": "nabiał", "unit": "l"}
	]}`)

	s := Load(path, nil)
	entry, ok := s.MetadataFor("mleko 3.2% 1l")
	require.True(t, ok)
	assert.Equal(t, "Mleko", entry.Name)
	assert.Equal(t, "nabiał", entry.Category)
	assert.Equal(t, "l", entry.Unit)

	_, ok = s.MetadataFor("MASLO")
	assert.False(t, ok)
}

func TestLoadMissingFileDegradesToEmptyStore(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Patterns())
}

func TestLoadMalformedFileDegradesToEmptyStore(t *testing.T) {
	path := writeTaxonomy(t, `{"mappings": [`)
	s := Load(path, nil)
	assert.Equal(t, 0, s.Len())
}
