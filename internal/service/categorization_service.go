package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/categorizer"
	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MaxCategorizeBatch caps the transactions accepted in one call.
const MaxCategorizeBatch = 5000

// CategorizationService exposes the categorizer with validation, metrics
// and tracing.
type CategorizationService struct {
	categorizer *categorizer.Categorizer
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewCategorizationService creates the categorization service.
func NewCategorizationService(c *categorizer.Categorizer, metrics *observability.Metrics, logger *zap.Logger) *CategorizationService {
	return &CategorizationService{
		categorizer: c,
		metrics:     metrics,
		logger:      logger,
	}
}

// Categorize assigns a category to each transaction.
func (s *CategorizationService) Categorize(ctx context.Context, txns []domain.Transaction) ([]domain.CategorizationResult, error) {
	_, span := tracer.Start(ctx, "CategorizationService.Categorize")
	defer span.End()
	span.SetAttributes(attribute.Int("transactions.count", len(txns)))

	if err := validateBatch(txns); err != nil {
		return nil, err
	}

	start := time.Now()
	results := s.categorizer.CategorizeAll(txns)
	s.metrics.RecordRequestDuration("categorize", time.Since(start))
	s.record(results)

	return results, nil
}

// Insights categorizes txns and reports anomalies and the spend breakdown.
func (s *CategorizationService) Insights(ctx context.Context, txns []domain.Transaction) (*domain.Insights, error) {
	_, span := tracer.Start(ctx, "CategorizationService.Insights")
	defer span.End()
	span.SetAttributes(attribute.Int("transactions.count", len(txns)))

	if err := validateBatch(txns); err != nil {
		return nil, err
	}

	start := time.Now()
	insights := s.categorizer.Summarize(txns)
	s.metrics.RecordRequestDuration("insights", time.Since(start))
	s.record(insights.Results)

	for _, a := range insights.Anomalies {
		s.metrics.RecordAnomaly(a.Severity)
	}
	if len(insights.Anomalies) > 0 {
		s.logger.Info("spending anomalies detected",
			zap.Int("count", len(insights.Anomalies)),
			zap.String("top_severity", string(insights.Anomalies[0].Severity)),
		)
	}
	span.SetAttributes(attribute.Int("anomalies.count", len(insights.Anomalies)))

	return &insights, nil
}

func (s *CategorizationService) record(results []domain.CategorizationResult) {
	for _, r := range results {
		s.metrics.RecordCategorization(r.Category)
	}
}

func validateBatch(txns []domain.Transaction) error {
	if len(txns) > MaxCategorizeBatch {
		return &domain.ErrValidation{
			Field:   "transactions",
			Message: fmt.Sprintf("at most %d transactions per request", MaxCategorizeBatch),
		}
	}
	return validateTransactions(txns, false)
}
