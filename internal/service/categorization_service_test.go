package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/categorizer"
	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/observability"
	"github.com/boddenberg/cashflow-forecast-go/internal/service"

	"go.uber.org/zap"
)

func newCategorizationService(t *testing.T) (*service.CategorizationService, *observability.Metrics) {
	t.Helper()
	c, err := categorizer.New(categorizer.DefaultRuleSet(), categorizer.DefaultOptions())
	if err != nil {
		t.Fatalf("categorizer: %v", err)
	}
	metrics := observability.NewMetrics()
	return service.NewCategorizationService(c, metrics, zap.NewNop()), metrics
}

func TestCategorize_AssignsCategories(t *testing.T) {
	svc, metrics := newCategorizationService(t)

	results, err := svc.Categorize(context.Background(), []domain.Transaction{
		{ID: "t1", Amount: -450, Description: "Swiggy order"},
		{ID: "t2", Amount: -90, Description: "Misc transfer"},
		{ID: "t3", Amount: 30000, Description: "Salary credit"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []string{"Food & Dining", domain.CategoryOthers, domain.CategoryIncome}
	for i, r := range results {
		if r.Category != want[i] {
			t.Errorf("result %d: expected %q, got %q", i, want[i], r.Category)
		}
	}

	snap := metrics.Snapshot()
	if snap.Categorizations != 3 {
		t.Errorf("expected 3 categorizations recorded, got %d", snap.Categorizations)
	}
	if snap.UncategorizedRate < 0.33 || snap.UncategorizedRate > 0.34 {
		t.Errorf("expected a third uncategorized, got %v", snap.UncategorizedRate)
	}
}

func TestCategorize_RejectsOversizedBatch(t *testing.T) {
	svc, _ := newCategorizationService(t)

	txns := make([]domain.Transaction, service.MaxCategorizeBatch+1)
	_, err := svc.Categorize(context.Background(), txns)

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) || ve.Field != "transactions" {
		t.Fatalf("expected ErrValidation on transactions, got %v", err)
	}
}

func TestInsights_RecordsAnomalies(t *testing.T) {
	svc, metrics := newCategorizationService(t)

	insights, err := svc.Insights(context.Background(), []domain.Transaction{
		{ID: "g1", Amount: -100, Description: "BigBasket"},
		{ID: "g2", Amount: -100, Description: "BigBasket"},
		{ID: "g3", Amount: -100, Description: "BigBasket"},
		{ID: "g4", Amount: -1000, Description: "BigBasket"},
		{ID: "f1", Amount: -200, Description: "Zomato"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(insights.Anomalies) != 1 || insights.Anomalies[0].Transaction.ID != "g4" {
		t.Fatalf("expected g4 flagged, got %+v", insights.Anomalies)
	}
	if insights.Anomalies[0].Severity != domain.SeverityHigh {
		t.Errorf("expected high severity, got %s", insights.Anomalies[0].Severity)
	}
	if insights.TopCategory == nil || insights.TopCategory.Category != "Groceries" {
		t.Errorf("expected Groceries as top category, got %+v", insights.TopCategory)
	}
	if insights.TotalSpent != 1500 {
		t.Errorf("expected total 1500, got %v", insights.TotalSpent)
	}

	if snap := metrics.Snapshot(); snap.AnomaliesHigh != 1 || snap.AnomaliesMedium != 0 {
		t.Errorf("unexpected anomaly metrics: %+v", snap)
	}
}
