package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External collaborators
	TransactionsAPIURL string
	AccountsAPIURL     string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Observability
	OTLPEndpoint string

	// Categorizer
	CategoryRulesPath string
	Categorizer       CategorizerConfig

	// Forecast engine
	Forecast ForecastConfig
}

// ForecastConfig carries the engine thresholds. The defaults suit amounts in
// rupees; other currencies need thresholds scaled to their magnitudes.
type ForecastConfig struct {
	ProjectionDays   int
	SafetyThreshold  float64
	RecentWindowDays int

	EMAAlpha            float64
	TrendMinPoints      int
	TrendSlopeThreshold float64
	TrendNudgePerDay    float64

	SeasonalityMinDays           int
	SeasonalityVarianceThreshold float64

	RecurrenceBands              []BandConfig
	RecurrenceVarianceMultiplier float64
	MaxRecurringReported         int

	DefaultIncomeCycleDays      int
	IncomeVarianceScale         float64
	UpcomingIncomeMinConfidence float64

	HighConfidenceMinPoints     int
	HighConfidenceMaxVariance   float64
	MediumConfidenceMinPoints   int
	MediumConfidenceMaxVariance float64
}

// BandConfig is an inclusive day range, e.g. "5-9".
type BandConfig struct {
	Min int
	Max int
}

// CategorizerConfig carries the categorizer thresholds.
type CategorizerConfig struct {
	IncomeAmountThreshold   float64
	MediumAnomalyMultiplier float64
	HighAnomalyMultiplier   float64
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TransactionsAPIURL: getEnv("TRANSACTIONS_API_URL", "http://localhost:8082"),
		AccountsAPIURL:     getEnv("ACCOUNTS_API_URL", "http://localhost:8083"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		CategoryRulesPath: getEnv("CATEGORY_RULES_PATH", ""),
		Categorizer: CategorizerConfig{
			IncomeAmountThreshold:   getEnvFloat("INCOME_AMOUNT_THRESHOLD", 1000),
			MediumAnomalyMultiplier: getEnvFloat("ANOMALY_MEDIUM_MULTIPLIER", 2),
			HighAnomalyMultiplier:   getEnvFloat("ANOMALY_HIGH_MULTIPLIER", 3),
		},

		Forecast: ForecastConfig{
			ProjectionDays:   getEnvInt("PROJECTION_DAYS", 7),
			SafetyThreshold:  getEnvFloat("SAFETY_THRESHOLD", 5000),
			RecentWindowDays: getEnvInt("RECENT_WINDOW_DAYS", 21),

			EMAAlpha:            getEnvFloat("EMA_ALPHA", 0.3),
			TrendMinPoints:      getEnvInt("TREND_MIN_POINTS", 5),
			TrendSlopeThreshold: getEnvFloat("TREND_SLOPE_THRESHOLD", 50),
			TrendNudgePerDay:    getEnvFloat("TREND_NUDGE_PER_DAY", 10),

			SeasonalityMinDays:           getEnvInt("SEASONALITY_MIN_DAYS", 28),
			SeasonalityVarianceThreshold: getEnvFloat("SEASONALITY_VARIANCE_THRESHOLD", 1000),

			RecurrenceBands:              getEnvBands("RECURRENCE_BANDS", "5-9,12-16,25-35"),
			RecurrenceVarianceMultiplier: getEnvFloat("RECURRENCE_VARIANCE_MULTIPLIER", 5),
			MaxRecurringReported:         getEnvInt("MAX_RECURRING_REPORTED", 5),

			DefaultIncomeCycleDays:      getEnvInt("DEFAULT_INCOME_CYCLE_DAYS", 7),
			IncomeVarianceScale:         getEnvFloat("INCOME_VARIANCE_SCALE", 10000),
			UpcomingIncomeMinConfidence: getEnvFloat("UPCOMING_INCOME_MIN_CONFIDENCE", 0.5),

			HighConfidenceMinPoints:     getEnvInt("HIGH_CONFIDENCE_MIN_POINTS", 21),
			HighConfidenceMaxVariance:   getEnvFloat("HIGH_CONFIDENCE_MAX_VARIANCE", 1000),
			MediumConfidenceMinPoints:   getEnvInt("MEDIUM_CONFIDENCE_MIN_POINTS", 14),
			MediumConfidenceMaxVariance: getEnvFloat("MEDIUM_CONFIDENCE_MAX_VARIANCE", 3000),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvBands parses "min-max,min-max". A malformed value falls back entirely.
func getEnvBands(key, fallback string) []BandConfig {
	if bands, err := ParseBands(getEnv(key, fallback)); err == nil {
		return bands
	}
	bands, _ := ParseBands(fallback)
	return bands
}

// ParseBands parses a comma-separated list of inclusive day ranges.
func ParseBands(s string) ([]BandConfig, error) {
	var bands []BandConfig
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("band %q: expected min-max", part)
		}
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", part, err)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("band %q: %w", part, err)
		}
		if from <= 0 || from > to {
			return nil, fmt.Errorf("band %q: need 0 < min <= max", part)
		}
		bands = append(bands, BandConfig{Min: from, Max: to})
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("no bands in %q", s)
	}
	return bands, nil
}
