package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pawelks/receipt-resolver/internal/cache"
	"github.com/pawelks/receipt-resolver/internal/common"
	"github.com/pawelks/receipt-resolver/internal/taxonomy"
)

// Small operational tool: prints cache and taxonomy health without touching
// either file.
func main() {
	var (
		taxPath  = flag.String("taxonomy", "", "taxonomy file path (overrides TAXONOMY_PATH)")
		cachePth = flag.String("cache", "", "cache file path (overrides CACHE_PATH)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *taxPath != "" {
		cfg.Taxonomy.Path = *taxPath
	}
	if *cachePth != "" {
		cfg.Cache.Path = *cachePth
	}

	tax := taxonomy.Load(cfg.Taxonomy.Path, logger)
	cch := cache.Load(cfg.Cache.Path, logger)

	bySource := map[string]int{}
	byCategory := map[string]int{}
	for _, m := range cch.Snapshot() {
		bySource[m.Source]++
		byCategory[m.Category]++
	}

	fmt.Printf("Taxonomy: %s\n", cfg.Taxonomy.Path)
	fmt.Printf("- patterns: %d\n", tax.Len())
	fmt.Printf("Cache: %s\n", cfg.Cache.Path)
	fmt.Printf("- entries: %d\n", cch.Len())
	for source, n := range bySource {
		fmt.Printf("- source %s: %d\n", source, n)
	}
	for cat, n := range byCategory {
		fmt.Printf("- category %s: %d\n", cat, n)
	}
}
