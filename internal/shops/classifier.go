package shops

import (
	"log/slog"
	"strings"
)

// Unknown is the sentinel shop ID returned when no alias matches.
const Unknown = "UNKNOWN"

type aliasSet struct {
	canonical string
	aliases   []string
}

// aliasTable maps canonical shop names to OCR substrings observed on real
// receipts. Order matters: classification walks the table top to bottom so
// results stay reproducible.
var aliasTable = []aliasSet{
	{"BIEDRONKA", []string{"JERONIMO MARTINS", "BIEDRONKA", "BIEDR.", "JMP S.A."}},
	{"LIDL", []string{"LIDL", "LIDL SP. Z O.O.", "LIDL SKLEP"}},
	{"AUCHAN", []string{"AUCHAN", "AUCHAN POLSKA"}},
	{"ZABKA", []string{"ZABKA", "ŻABKA", "AJENT", "SKLEP SPOZYWCZY ZABKA"}},
	{"ROSSMANN", []string{"ROSSMANN", "ROSSMANN SDP"}},
	{"HEBE", []string{"JERONIMO MARTINS DROGERIE", "HEBE"}},
	{"CARREFOUR", []string{"CARREFOUR", "CARREFOUR EXPRESS", "CARREFOUR MARKET"}},
	{"KAUFLAND", []string{"KAUFLAND", "KAUFLAND POLSKA"}},
	{"DINO", []string{"DINO", "DINO POLSKA", "MARKET DINO"}},
	{"NETTO", []string{"NETTO", "NETTO SP. Z O.O."}},
	{"ALDI", []string{"ALDI", "ALDI SP. Z O.O."}},
	{"STOKROTKA", []string{"STOKROTKA", "STOKROTKA SP. Z O.O."}},
	{"LEWIATAN", []string{"LEWIATAN", "P.H.U.", "SKLEP SPOZYWCZY LEWIATAN"}},
	{"ORLEN", []string{"PKN ORLEN", "ORLEN", "STACJA PALIW ORLEN"}},
	{"BP", []string{"BP EUROPA", "STACJA PALIW BP"}},
	{"SHELL", []string{"SHELL", "SHELL POLSKA"}},
	{"CIRCLE_K", []string{"CIRCLE K", "STATOIL"}},
	{"MCDONALDS", []string{"MCDONALD'S", "MCDONALDS", "RESTAURACJA MCDONALDS"}},
	{"KFC", []string{"KFC", "AMREST"}},
	{"LEROY_MERLIN", []string{"LEROY MERLIN", "LEROY-MERLIN"}},
	{"CASTORAMA", []string{"CASTORAMA", "CASTORAMA POLSKA"}},
	{"IKEA", []string{"IKEA", "IKEA RETAIL"}},
}

// Classifier maps raw OCR text to a canonical shop and hands out the
// preprocessing agent registered for it.
type Classifier struct {
	logger *slog.Logger
	agents map[string]LineAgent
	def    LineAgent
}

func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		logger: logger,
		agents: map[string]LineAgent{
			"BIEDRONKA": &BiedronkaAgent{},
			"LIDL":      &LidlAgent{},
		},
		def: &DefaultAgent{},
	}
}

// Classify returns the first canonical shop whose alias appears in the text,
// or Unknown when nothing matches.
func (c *Classifier) Classify(ocrText string) string {
	upper := strings.ToUpper(ocrText)
	for _, set := range aliasTable {
		for _, alias := range set.aliases {
			if strings.Contains(upper, alias) {
				return set.canonical
			}
		}
	}
	return Unknown
}

// AgentFor returns the line agent registered for a shop, falling back to the
// default agent when no specialized one exists.
func (c *Classifier) AgentFor(shop string) LineAgent {
	if a, ok := c.agents[strings.ToUpper(shop)]; ok {
		return a
	}
	return c.def
}
