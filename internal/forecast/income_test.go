package forecast_test

import (
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

func TestPredictIncome_InsufficientData(t *testing.T) {
	e := newEngine(t)
	ref := domain.MustParseDate("2025-03-10")

	for _, txns := range [][]domain.Transaction{
		nil,
		{tx(-500, "2025-03-01", "rent")},
		{tx(8000, "2025-03-01", "client")},
	} {
		got := e.PredictIncome(txns, ref)
		if got.Confidence != 0.3 {
			t.Errorf("expected confidence 0.3, got %v", got.Confidence)
		}
		if got.NextDate.String() != "2025-03-17" {
			t.Errorf("expected reference + 7 days, got %s", got.NextDate)
		}
	}
}

func TestPredictIncome_RegularCycle(t *testing.T) {
	e := newEngine(t)
	txns := []domain.Transaction{
		tx(5000, "2025-01-29", "payout"),
		tx(5000, "2025-01-01", "payout"),
		tx(-200, "2025-01-10", "food"),
		tx(5000, "2025-01-15", "payout"),
	}

	got := e.PredictIncome(txns, domain.MustParseDate("2025-02-01"))
	if got.Confidence != 0.95 {
		t.Errorf("expected ceiling confidence 0.95, got %v", got.Confidence)
	}
	if got.NextDate.String() != "2025-02-12" {
		t.Errorf("expected next income 2025-02-12, got %s", got.NextDate)
	}
	if got.AverageAmount != 5000 {
		t.Errorf("expected average amount 5000, got %v", got.AverageAmount)
	}
	if got.SampleSize != 3 {
		t.Errorf("expected 3 samples, got %d", got.SampleSize)
	}
}

func TestPredictIncome_ConfidenceFallsWithVariance(t *testing.T) {
	e := newEngine(t)
	ref := domain.MustParseDate("2025-07-01")

	// intervals 140 and 20: mean 80, variance 3600 -> 1 - 0.36
	moderate := []domain.Transaction{
		tx(3000, "2025-01-01", "gig"),
		tx(3000, "2025-01-21", "gig"),
		tx(3000, "2025-06-10", "gig"),
	}
	got := e.PredictIncome(moderate, ref)
	if got.Confidence != 0.64 {
		t.Errorf("expected confidence 0.64, got %v", got.Confidence)
	}
	if got.NextDate.String() != "2025-08-29" {
		t.Errorf("expected next income 2025-08-29, got %s", got.NextDate)
	}

	// intervals 250 and 10: variance 14400, clamped to the floor
	erratic := []domain.Transaction{
		tx(3000, "2024-01-01", "gig"),
		tx(3000, "2024-01-11", "gig"),
		tx(3000, "2024-09-17", "gig"),
	}
	got = e.PredictIncome(erratic, ref)
	if got.Confidence != 0.5 {
		t.Errorf("expected floor confidence 0.5, got %v", got.Confidence)
	}
}
