package forecast_test

import (
	"testing"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
)

func saturdayHeavy(d domain.Date) float64 {
	if d.Weekday() == time.Saturday {
		return -1000
	}
	return -100
}

func TestDetectWeeklyPattern_RequiresFourWeeks(t *testing.T) {
	e := newEngine(t)
	flows := forecast.AggregateDaily(daily("2025-01-01", 27, saturdayHeavy, "spend"))

	if got := e.DetectWeeklyPattern(flows); got.Detected {
		t.Errorf("expected no pattern below 28 days, got %+v", got)
	}
}

func TestDetectWeeklyPattern_WeekendSpike(t *testing.T) {
	e := newEngine(t)
	flows := forecast.AggregateDaily(daily("2025-01-01", 35, saturdayHeavy, "spend"))

	got := e.DetectWeeklyPattern(flows)
	if !got.Detected {
		t.Fatalf("expected weekly pattern, got %+v", got)
	}
	if got.AverageExpenses[time.Saturday] != 1000 {
		t.Errorf("expected Saturday average 1000, got %v", got.AverageExpenses[time.Saturday])
	}
	if got.AverageExpenses[time.Monday] != 100 {
		t.Errorf("expected Monday average 100, got %v", got.AverageExpenses[time.Monday])
	}
}

func TestDetectWeeklyPattern_FlatSpending(t *testing.T) {
	e := newEngine(t)
	flows := forecast.AggregateDaily(daily("2025-01-01", 42, func(domain.Date) float64 { return -100 }, "spend"))

	got := e.DetectWeeklyPattern(flows)
	if got.Detected {
		t.Errorf("expected no pattern for flat spending, got %+v", got)
	}
	if got.Variance != 0 {
		t.Errorf("expected zero variance, got %v", got.Variance)
	}
}
