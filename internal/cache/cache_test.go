package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawelks/receipt-resolver/internal/entity"
)

func testMatch() entity.ProductMatch {
	return entity.ProductMatch{
		Name:       "Mleko",
		Category:   "NABIAŁ",
		Unit:       "l",
		Confidence: 0.92,
		Source:     entity.SourceFuzzy,
	}
}

func TestLookupNormalizesKey(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), nil)
	c.Update("  mleko 3.2% 1l  4,99 ", testMatch())

	got, ok := c.Lookup("MLEKO 3.2% 1L  4,99")
	require.True(t, ok)
	assert.Equal(t, testMatch(), got)

	_, ok = c.Lookup("CHLEB")
	assert.False(t, ok)
}

func TestUpdateLastWriterWins(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), nil)
	first := testMatch()
	c.Update("MLEKO", first)

	second := first
	second.Confidence = 1.0
	second.Source = entity.SourceCache
	c.Update("mleko", second)

	got, ok := c.Lookup("MLEKO")
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, 1, c.Len())
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := Load(path, nil)
	c.Update("MLEKO 3.2% 1L  4,99", testMatch())
	require.NoError(t, c.Persist())

	fresh := Load(path, nil)
	got, ok := fresh.Lookup("MLEKO 3.2% 1L  4,99")
	require.True(t, ok)
	assert.Equal(t, testMatch(), got)
}

func TestPersistIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := Load(path, nil)
	c.Update("MLEKO", testMatch())
	require.NoError(t, c.Persist())
	require.NoError(t, c.Persist())

	fresh := Load(path, nil)
	assert.Equal(t, 1, fresh.Len())
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := Load(path, nil)
	c.Update("MLEKO", testMatch())
	require.NoError(t, c.Persist())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}

func TestLoadMalformedFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c := Load(path, nil)
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentUpdatesAndLookups(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			line := string(rune('A' + n))
			c.Update(line, testMatch())
			_, _ = c.Lookup(line)
			_ = c.Len()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, c.Len())
}
