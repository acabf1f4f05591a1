package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.Forecast.ProjectionDays != 7 || cfg.Forecast.SafetyThreshold != 5000 {
		t.Errorf("unexpected projection defaults: %+v", cfg.Forecast)
	}
	if cfg.Forecast.EMAAlpha != 0.3 {
		t.Errorf("expected alpha 0.3, got %v", cfg.Forecast.EMAAlpha)
	}
	if len(cfg.Forecast.RecurrenceBands) != 3 {
		t.Errorf("expected 3 default bands, got %+v", cfg.Forecast.RecurrenceBands)
	}
	if cfg.Categorizer.HighAnomalyMultiplier != 3 {
		t.Errorf("expected high multiplier 3, got %v", cfg.Categorizer.HighAnomalyMultiplier)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SAFETY_THRESHOLD", "250.5")
	t.Setenv("TREND_SLOPE_THRESHOLD", "0.75")
	t.Setenv("RECURRENCE_BANDS", "6-8, 28-31")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("PROJECTION_DAYS", "not-a-number")

	cfg := config.Load()

	if cfg.Forecast.SafetyThreshold != 250.5 {
		t.Errorf("expected 250.5, got %v", cfg.Forecast.SafetyThreshold)
	}
	if cfg.Forecast.TrendSlopeThreshold != 0.75 {
		t.Errorf("expected 0.75, got %v", cfg.Forecast.TrendSlopeThreshold)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.CacheTTL)
	}
	if cfg.CacheEnabled {
		t.Error("expected cache to be disabled")
	}
	if cfg.Forecast.ProjectionDays != 7 {
		t.Errorf("expected malformed value to fall back to 7, got %d", cfg.Forecast.ProjectionDays)
	}
	bands := cfg.Forecast.RecurrenceBands
	if len(bands) != 2 || bands[0] != (config.BandConfig{Min: 6, Max: 8}) || bands[1] != (config.BandConfig{Min: 28, Max: 31}) {
		t.Errorf("unexpected bands: %+v", bands)
	}
}

func TestParseBands_Invalid(t *testing.T) {
	for _, in := range []string{"", "7", "9-5", "a-b", "0-3"} {
		if _, err := config.ParseBands(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "# local\nCFG_TEST_FROM_FILE=\"file\"\nCFG_TEST_PRESET=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("CFG_TEST_PRESET", "env")
	t.Setenv("CFG_TEST_FROM_FILE", "")
	os.Unsetenv("CFG_TEST_FROM_FILE")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("CFG_TEST_FROM_FILE"); got != "file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("CFG_TEST_PRESET"); got != "env" {
		t.Errorf("expected existing env to win, got %q", got)
	}
}
