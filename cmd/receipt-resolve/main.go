package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pawelks/receipt-resolver/internal/cache"
	"github.com/pawelks/receipt-resolver/internal/common"
	"github.com/pawelks/receipt-resolver/internal/export"
	"github.com/pawelks/receipt-resolver/internal/fuzzy"
	"github.com/pawelks/receipt-resolver/internal/llm"
	"github.com/pawelks/receipt-resolver/internal/llm/gemini"
	"github.com/pawelks/receipt-resolver/internal/llm/openai"
	"github.com/pawelks/receipt-resolver/internal/pipeline"
	"github.com/pawelks/receipt-resolver/internal/shops"
	"github.com/pawelks/receipt-resolver/internal/taxonomy"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input    = flag.String("input", "-", "OCR text file to resolve, or - for stdin")
		shopHint = flag.String("shop", "", "canonical shop hint (skips classification)")
		taxPath  = flag.String("taxonomy", "", "taxonomy file path (overrides TAXONOMY_PATH)")
		cachePth = flag.String("cache", "", "cache file path (overrides CACHE_PATH)")
		out      = flag.String("out", "", "optional XLSX output path")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *taxPath != "" {
		cfg.Taxonomy.Path = *taxPath
	}
	if *cachePth != "" {
		cfg.Cache.Path = *cachePth
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ocrText, err := readInput(*input)
	if err != nil {
		printError("Error: reading input: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Wire the resolution tiers.
	tax := taxonomy.Load(cfg.Taxonomy.Path, logger)
	cch := cache.Load(cfg.Cache.Path, logger)
	classifier := shops.NewClassifier(logger)
	matcher := fuzzy.NewMatcher(logger,
		fuzzy.WithWorkers(cfg.Fuzzy.Workers),
		fuzzy.WithParallelThreshold(cfg.Fuzzy.ParallelThreshold),
	)

	// AI tier is optional: without a key the cheap tiers still work.
	var generator llm.Generator
	switch {
	case cfg.AI.Provider == "google" && cfg.AI.APIKey != "":
		g, err := gemini.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			logger.Error("failed to initialize gemini client", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := g.Close(); err != nil {
				logger.Warn("gemini client close error", "error", err)
			}
		}()
		generator = g
	case cfg.AI.Provider == "openai" && cfg.AI.APIKey != "":
		generator = openai.NewClient(openai.Config{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	default:
		logger.Warn("AI API key not configured, generative fallback tier disabled")
	}

	resolver := pipeline.NewResolver(logger, cch, tax, classifier, matcher, generator, pipeline.Config{
		MinScore:  cfg.Fuzzy.MinScore,
		AITimeout: cfg.AI.Timeout,
	})

	receipt, err := resolver.Resolve(ctx, ocrText, *shopHint)
	if err != nil {
		logger.Error("resolve failed", "error", err)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))

	if *out != "" {
		xlsx, err := export.NewService(logger).ReceiptXLSX(receipt)
		if err != nil {
			logger.Error("failed to export receipt", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsx, 0644); err != nil {
			logger.Error("failed to write output file", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("wrote XLSX export", "path", *out, "items", len(receipt.Items))
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
