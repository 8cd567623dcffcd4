package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawelks/receipt-resolver/internal/cache"
	"github.com/pawelks/receipt-resolver/internal/common"
	"github.com/pawelks/receipt-resolver/internal/entity"
	"github.com/pawelks/receipt-resolver/internal/fuzzy"
	"github.com/pawelks/receipt-resolver/internal/llm"
	"github.com/pawelks/receipt-resolver/internal/ocrtext"
	"github.com/pawelks/receipt-resolver/internal/shops"
	"github.com/pawelks/receipt-resolver/internal/taxonomy"
)

// AI-sourced matches carry no per-item model score; this stands in for one.
const aiConfidence = 0.9

// ProductMatcher is the fuzzy tier the pipeline depends on.
type ProductMatcher interface {
	MatchBatch(ctx context.Context, lines, patterns []string) []*fuzzy.Result
}

// Config tunes the resolver thresholds.
type Config struct {
	MinScore  int           // fuzzy acceptance, 0..100
	AITimeout time.Duration // hard bound on one AI attempt
}

// Resolver orchestrates the tiered resolution of one OCR'd receipt:
// persistent cache, then fuzzy matching against the taxonomy, then a
// generative fallback when coverage stays low. It owns the cache and the
// taxonomy store for its process lifetime.
type Resolver struct {
	logger     *slog.Logger
	cache      *cache.Cache
	taxonomy   *taxonomy.Store
	classifier *shops.Classifier
	matcher    ProductMatcher
	generator  llm.Generator // nil disables the AI tier
	minScore   int
	aiTimeout  time.Duration
}

func NewResolver(
	logger *slog.Logger,
	cch *cache.Cache,
	tax *taxonomy.Store,
	classifier *shops.Classifier,
	matcher ProductMatcher,
	generator llm.Generator,
	cfg Config,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 70
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 120 * time.Second
	}
	return &Resolver{
		logger:     logger,
		cache:      cch,
		taxonomy:   tax,
		classifier: classifier,
		matcher:    matcher,
		generator:  generator,
		minScore:   cfg.MinScore,
		aiTimeout:  cfg.AITimeout,
	}
}

// Resolve maps every line of the OCR text to a canonical product. Empty input
// is the only hard failure; every downstream tier degrades instead of
// aborting the call.
func (r *Resolver) Resolve(ctx context.Context, ocrText, shopHint string) (*entity.ResolvedReceipt, error) {
	start := time.Now()
	rid := uuid.New().String()

	if strings.TrimSpace(ocrText) == "" {
		return nil, common.NewAppError("VALIDATION_ERROR", "ocr text is empty", common.ErrValidation)
	}

	// 1) Shop resolution + shop-specific preprocessing.
	shop := shopHint
	if shop == "" {
		shop = r.classifier.Classify(ocrText)
	}
	agent := r.classifier.AgentFor(shop)
	lines := splitLines(agent.Preprocess(ocrtext.Normalize(ocrText)))

	r.logger.Info("pipeline.resolve.start",
		"req_id", rid,
		"shop", shop,
		"shop_hinted", shopHint != "",
		"lines", len(lines),
	)
	// Preprocessing may drop every line (aggressive shop agents); that is not
	// a caller error, the AI tier still sees the raw text below.

	// 2) Cache tier: exact lookups on normalized line text. Hits report the
	// cache as their source no matter which tier originally produced the
	// stored match.
	var items []entity.ResolvedLineItem
	var misses []string
	for _, line := range lines {
		if match, ok := r.cache.Lookup(line); ok {
			match.Source = entity.SourceCache
			items = append(items, r.lineItem(line, match))
		} else {
			misses = append(misses, line)
		}
	}
	cacheHits := len(items)
	var cacheHitRate float64
	if len(lines) > 0 {
		cacheHitRate = float64(cacheHits) / float64(len(lines))
	}

	// 3) Fuzzy tier: batch-match the misses, write acceptances back into the
	// cache so identical lines become cache hits next time.
	if len(misses) > 0 {
		results := r.matcher.MatchBatch(ctx, misses, r.taxonomy.Patterns())
		for i, res := range results {
			if res == nil || res.Score < r.minScore {
				continue
			}
			meta, ok := r.taxonomy.MetadataFor(res.Pattern)
			if !ok {
				continue
			}
			match := entity.ProductMatch{
				Name:       meta.Name,
				Category:   normalizeCategory(meta.Category),
				Unit:       meta.Unit,
				Confidence: float64(res.Score) / 100.0,
				Source:     entity.SourceFuzzy,
			}
			items = append(items, r.lineItem(misses[i], match))
			r.cache.Update(misses[i], match)
		}
	}

	// 4) Coverage decision and AI tier. On success the AI item list replaces
	// the cheap-tier results wholesale; any failure keeps the partial results.
	usedAI := false
	if r.needsAI(len(items), len(lines), cacheHitRate) {
		if r.generator == nil {
			r.logger.Warn("pipeline.ai.skipped", "req_id", rid, "reason", "no generator configured")
		} else {
			usedAI = true
			if aiItems, err := r.aiResolve(ctx, ocrText, shop); err != nil {
				r.logger.Error("pipeline.ai.failed", "req_id", rid, "error", err)
			} else {
				items = aiItems
			}
		}
	}

	// 5) Receipt metadata.
	var date *time.Time
	if dates := agent.DetectDates(ocrText); len(dates) > 0 {
		date = &dates[0]
	}
	var total float64
	for _, it := range items {
		total += it.Total
	}

	// 6) Best-effort persistence of cache updates.
	if err := r.cache.Persist(); err != nil {
		r.logger.Warn("pipeline.cache_persist.failed", "req_id", rid, "error", err)
	}

	elapsed := time.Since(start)
	r.logger.Info("pipeline.resolve.ok",
		"req_id", rid,
		"shop", shop,
		"items", len(items),
		"cache_hit_rate", cacheHitRate,
		"used_ai", usedAI,
		"total", total,
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return &entity.ResolvedReceipt{
		Shop:        shop,
		Date:        date,
		Items:       items,
		TotalAmount: total,
		Stats: entity.ResolveStats{
			Elapsed:      elapsed,
			CacheHitRate: cacheHitRate,
			UsedAI:       usedAI,
		},
	}, nil
}

// needsAI gates the expensive tier: only receipts the cheap tiers could not
// mostly resolve reach the model.
func (r *Resolver) needsAI(resolved, totalLines int, cacheHitRate float64) bool {
	if resolved == 0 {
		return true
	}
	coverage := float64(resolved) / float64(totalLines)
	return coverage < 0.3 || cacheHitRate < 0.1
}

// aiResolve runs the single bounded AI attempt for this call. The context
// budget guarantees the attempt is abandoned, not merely ignored, on timeout.
func (r *Resolver) aiResolve(ctx context.Context, ocrText, shop string) ([]entity.ResolvedLineItem, error) {
	aiCtx, cancel := context.WithTimeout(ctx, r.aiTimeout)
	defer cancel()

	system := llm.BuildSystemPrompt(shop, nil)
	user := llm.BuildUserPrompt(shop, ocrText)

	raw, err := r.generator.Generate(aiCtx, user, system)
	if err != nil {
		return nil, common.WrapError(err, "ai generate")
	}
	list, err := llm.ExtractItems(raw, r.logger)
	if err != nil {
		return nil, common.WrapError(err, "ai response")
	}
	if len(list.Items) == 0 {
		return nil, common.NewAppError("AI_EMPTY", "model returned no items", common.ErrInternal)
	}

	// AI items are authoritative for this receipt but are not written back
	// into the cache: the model may hallucinate line mappings.
	items := make([]entity.ResolvedLineItem, 0, len(list.Items))
	for _, it := range list.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1.0
		}
		items = append(items, entity.ResolvedLineItem{
			Match: entity.ProductMatch{
				Name:       it.Name,
				Category:   normalizeCategory(it.Category),
				Unit:       it.Unit,
				Confidence: aiConfidence,
				Source:     entity.SourceAI,
			},
			Quantity:  qty,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return items, nil
}

var rePrice = regexp.MustCompile(`\d+[.,]\d{2}`)

// extractPrice pulls the trailing two-decimal token from a line. The last
// token wins so leading quantity-like numbers are tolerated.
func extractPrice(line string) float64 {
	tokens := rePrice.FindAllString(line, -1)
	if len(tokens) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(tokens[len(tokens)-1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// lineItem builds the resolved item for a cache/fuzzy match. Quantity parsing
// is deferred; one unit at the extracted line price.
func (r *Resolver) lineItem(line string, match entity.ProductMatch) entity.ResolvedLineItem {
	price := extractPrice(line)
	return entity.ResolvedLineItem{
		RawLine:   line,
		Match:     match,
		Quantity:  1.0,
		UnitPrice: price,
		Total:     price,
	}
}

func normalizeCategory(cat string) string {
	cat = strings.ToUpper(strings.TrimSpace(cat))
	if cat == "" {
		return llm.FallbackCategory
	}
	return cat
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
