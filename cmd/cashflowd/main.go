package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/categorizer"
	"github.com/boddenberg/cashflow-forecast-go/internal/config"
	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
	"github.com/boddenberg/cashflow-forecast-go/internal/handler"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/cache"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/client"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/observability"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/resilience"
	"github.com/boddenberg/cashflow-forecast-go/internal/port"
	"github.com/boddenberg/cashflow-forecast-go/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("projection_days", cfg.Forecast.ProjectionDays),
		zap.Float64("safety_threshold", cfg.Forecast.SafetyThreshold),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "cashflow-forecast")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Engine & categorizer ---
	engine, err := forecast.NewEngine(engineParams(cfg.Forecast))
	if err != nil {
		logger.Fatal("invalid forecast configuration", zap.Error(err))
	}

	rules := categorizer.DefaultRuleSet()
	if cfg.CategoryRulesPath != "" {
		rules, err = categorizer.LoadRuleSet(cfg.CategoryRulesPath)
		if err != nil {
			logger.Fatal("failed to load category rules",
				zap.String("path", cfg.CategoryRulesPath),
				zap.Error(err),
			)
		}
	}
	logger.Info("category rules loaded", zap.Int("rules", len(rules.Rules())))

	cat, err := categorizer.New(rules, categorizerOptions(cfg.Categorizer))
	if err != nil {
		logger.Fatal("invalid categorizer configuration", zap.Error(err))
	}

	// --- Cache ---
	var txCache port.Cache[[]domain.Transaction]
	if cfg.CacheEnabled {
		c := cache.New[[]domain.Transaction](cfg.CacheTTL)
		defer c.Close()
		txCache = c
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	logStateChange := func(name string, from, to gobreaker.State) {
		logger.Warn("circuit breaker state change",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	transactionsCB := resilience.NewCircuitBreaker("transactions", logStateChange)
	accountsCB := resilience.NewCircuitBreaker("accounts", logStateChange)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	transactionsClient := client.NewTransactionsClient(httpClient, cfg.TransactionsAPIURL, transactionsCB, resilienceCfg)
	accountsClient := client.NewAccountsClient(httpClient, cfg.AccountsAPIURL, accountsCB, resilienceCfg)

	// --- Services ---
	forecastSvc := service.NewForecastService(engine, transactionsClient, accountsClient, txCache, metrics, logger)
	categorizationSvc := service.NewCategorizationService(cat, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(
		forecastSvc,
		categorizationSvc,
		[]*gobreaker.CircuitBreaker{transactionsCB, accountsCB},
		metrics,
		logger,
	)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      concurrencyLimit(router, cfg.MaxConcurrency),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// concurrencyLimit sheds load with 503 once maxConcurrency requests are in
// flight and a slot does not free up within the request's deadline.
func concurrencyLimit(next http.Handler, maxConcurrency int) http.Handler {
	bulkhead := resilience.NewBulkhead(maxConcurrency)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := bulkhead.Acquire(ctx); err != nil {
			http.Error(w, `{"error":"server busy"}`, http.StatusServiceUnavailable)
			return
		}
		defer bulkhead.Release()
		next.ServeHTTP(w, r)
	})
}

func engineParams(c config.ForecastConfig) forecast.Params {
	p := forecast.DefaultParams()
	p.ProjectionDays = c.ProjectionDays
	p.SafetyThreshold = c.SafetyThreshold
	p.RecentWindowDays = c.RecentWindowDays

	p.EMAAlpha = c.EMAAlpha
	p.TrendMinPoints = c.TrendMinPoints
	p.TrendSlopeThreshold = c.TrendSlopeThreshold
	p.TrendNudgePerDay = c.TrendNudgePerDay

	p.SeasonalityMinDays = c.SeasonalityMinDays
	p.SeasonalityVarianceThreshold = c.SeasonalityVarianceThreshold

	if len(c.RecurrenceBands) > 0 {
		p.RecurrenceBands = make([]forecast.Band, len(c.RecurrenceBands))
		for i, b := range c.RecurrenceBands {
			p.RecurrenceBands[i] = forecast.NewBand(b.Min, b.Max)
		}
	}
	p.RecurrenceVarianceMultiplier = c.RecurrenceVarianceMultiplier
	p.MaxRecurringReported = c.MaxRecurringReported

	p.DefaultIncomeCycleDays = c.DefaultIncomeCycleDays
	p.IncomeVarianceScale = c.IncomeVarianceScale
	p.UpcomingIncomeMinConfidence = c.UpcomingIncomeMinConfidence

	p.HighConfidence = forecast.Tier{MinDataPoints: c.HighConfidenceMinPoints, MaxVariance: c.HighConfidenceMaxVariance}
	p.MediumConfidence = forecast.Tier{MinDataPoints: c.MediumConfidenceMinPoints, MaxVariance: c.MediumConfidenceMaxVariance}
	return p
}

func categorizerOptions(c config.CategorizerConfig) categorizer.Options {
	o := categorizer.DefaultOptions()
	o.IncomeAmountThreshold = c.IncomeAmountThreshold
	o.MediumAnomalyMultiplier = c.MediumAnomalyMultiplier
	o.HighAnomalyMultiplier = c.HighAnomalyMultiplier
	return o
}
