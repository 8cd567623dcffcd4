package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Taxonomy TaxonomyConfig
	Cache    CacheConfig
	Fuzzy    FuzzyConfig
	AI       AIConfig
}

// TaxonomyConfig holds product taxonomy configuration
type TaxonomyConfig struct {
	Path string
}

// CacheConfig holds resolution cache configuration
type CacheConfig struct {
	Path string
}

// FuzzyConfig holds fuzzy matcher tuning
type FuzzyConfig struct {
	MinScore          int
	ParallelThreshold int
	Workers           int
}

// AIConfig holds generative fallback configuration
type AIConfig struct {
	Provider    string // "google", "openai", or "" to disable the AI tier
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	provider := getEnv("RECEIPT_AI_PROVIDER", "google")
	apiKey := getEnv("GOOGLE_API_KEY", "")
	if provider == "openai" {
		apiKey = getEnv("OPENAI_API_KEY", "")
	}
	return &Config{
		Taxonomy: TaxonomyConfig{
			Path: getEnv("TAXONOMY_PATH", "config/product_taxonomy.json"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", "receipt_cache.json"),
		},
		Fuzzy: FuzzyConfig{
			MinScore:          getEnvAsInt("FUZZY_MIN_SCORE", 70),
			ParallelThreshold: getEnvAsInt("FUZZY_PARALLEL_THRESHOLD", 15),
			Workers:           getEnvAsInt("FUZZY_WORKERS", 4),
		},
		AI: AIConfig{
			Provider:    provider,
			Model:       getEnv("RECEIPT_AI_MODEL", ""),
			APIKey:      apiKey,
			Temperature: getEnvAsFloat32("RECEIPT_AI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("RECEIPT_AI_TIMEOUT", 120*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Taxonomy.Path == "" {
		return NewAppError("CONFIG_ERROR", "TAXONOMY_PATH is required", ErrInvalidInput)
	}
	if c.Cache.Path == "" {
		return NewAppError("CONFIG_ERROR", "CACHE_PATH is required", ErrInvalidInput)
	}
	switch c.AI.Provider {
	case "", "google", "openai":
	default:
		return NewAppError("CONFIG_ERROR", "unknown RECEIPT_AI_PROVIDER: "+c.AI.Provider, ErrInvalidInput)
	}
	if c.Fuzzy.MinScore < 0 || c.Fuzzy.MinScore > 100 {
		return NewAppError("CONFIG_ERROR", "FUZZY_MIN_SCORE must be within 0..100", ErrInvalidInput)
	}
	if c.Fuzzy.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "FUZZY_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
