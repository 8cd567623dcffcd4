package shops

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownShops(t *testing.T) {
	c := NewClassifier(nil)

	assert.Equal(t, "BIEDRONKA", c.Classify("JERONIMO MARTINS POLSKA S.A.\nPARAGON FISKALNY"))
	assert.Equal(t, "BIEDRONKA", c.Classify("sklep biedronka 123"))
	assert.Equal(t, "LIDL", c.Classify("LIDL SP. Z O.O. SP. K."))
	assert.Equal(t, "ZABKA", c.Classify("ŻABKA POLSKA"))
}

func TestClassifyUnknownShop(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, Unknown, c.Classify("MLEKO 3.2% 1L  4,99"))
}

func TestClassifyIsStableWhenMultipleAliasesMatch(t *testing.T) {
	c := NewClassifier(nil)
	// Both shops appear; the alias table is scanned in insertion order, so
	// BIEDRONKA wins every time.
	text := "LIDL I BIEDRONKA NA JEDNYM PARAGONIE"
	for i := 0; i < 10; i++ {
		assert.Equal(t, "BIEDRONKA", c.Classify(text))
	}
}

func TestAgentForFallsBackToDefault(t *testing.T) {
	c := NewClassifier(nil)

	_, ok := c.AgentFor("BIEDRONKA").(*BiedronkaAgent)
	assert.True(t, ok)
	_, ok = c.AgentFor("biedronka").(*BiedronkaAgent)
	assert.True(t, ok)
	_, ok = c.AgentFor("AUCHAN").(*DefaultAgent)
	assert.True(t, ok)
	_, ok = c.AgentFor(Unknown).(*DefaultAgent)
	assert.True(t, ok)
}

func TestBiedronkaPreprocessSlicesItemList(t *testing.T) {
	a := &BiedronkaAgent{}
	text := strings.Join([]string{
		"JERONIMO MARTINS POLSKA S.A.",
		"NIP 779-10-11-327",
		"PARAGON FISKALNY",
		"MLEKO 3.2% 1L  4,99",
		"CHLEB ZYTNI  6,50",
		"SUMA PLN 11,49",
		"NR SYS 1234",
	}, "\n")

	got := a.Preprocess(text)
	assert.Equal(t, "MLEKO 3.2% 1L  4,99\nCHLEB ZYTNI  6,50", got)
}

func TestBiedronkaPreprocessWithoutMarkersReturnsInput(t *testing.T) {
	a := &BiedronkaAgent{}
	text := "MLEKO 3.2% 1L  4,99\nCHLEB ZYTNI  6,50"
	assert.Equal(t, text, a.Preprocess(text))
}

func TestLidlPreprocessDropsLoyaltyNoise(t *testing.T) {
	a := &LidlAgent{}
	text := "MASLO EXTRA  7,99\nRABAT LIDL PLUS -1,00\nJAJA 10SZT  12,49"
	got := a.Preprocess(text)
	assert.NotContains(t, got, "LIDL PLUS")
	assert.Contains(t, got, "MASLO EXTRA  7,99")
	assert.Contains(t, got, "JAJA 10SZT  12,49")
}

func TestDefaultPreprocessIsIdentity(t *testing.T) {
	a := &DefaultAgent{}
	text := "anything\nat all"
	assert.Equal(t, text, a.Preprocess(text))
}

func TestDetectDatesFirstWins(t *testing.T) {
	a := &DefaultAgent{}

	dates := a.DetectDates("PARAGON FISKALNY\n2024-03-17 14:22\nwydruk 18-03-2024")
	require.NotEmpty(t, dates)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), dates[0])

	dates = a.DetectDates("data 21.07.2023 godz 9:15")
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2023, 7, 21, 0, 0, 0, 0, time.UTC), dates[0])

	assert.Empty(t, a.DetectDates("no dates here"))
}

func TestDetectDatesOrderedByPosition(t *testing.T) {
	a := &DefaultAgent{}

	// The dd-mm-yyyy date comes first in the text and must win even though
	// the ISO pattern is tried first.
	dates := a.DetectDates("sprzedaz 18-03-2024\nwydruk 2024-03-19")
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), dates[1])
}
