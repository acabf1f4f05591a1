package forecast_test

import (
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
)

func TestNewEngine_RejectsInvalidParams(t *testing.T) {
	p := forecast.DefaultParams()
	p.EMAAlpha = 0
	if _, err := forecast.NewEngine(p); err == nil {
		t.Fatal("expected error for zero alpha")
	}

	p = forecast.DefaultParams()
	p.RecurrenceBands = []forecast.Band{{Min: 10, Max: 5}}
	if _, err := forecast.NewEngine(p); err == nil {
		t.Fatal("expected error for inverted band")
	}
}

func TestProject_SteadySpendingRunsLow(t *testing.T) {
	e := newEngine(t)
	txns := daily("2025-01-11", 21, func(domain.Date) float64 { return -100 }, "groceries")

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance:  1000,
		ReferenceDate:   domain.MustParseDate("2025-01-31"),
		SafetyThreshold: floatPtr(600),
	})

	if len(p.ProjectionByDay) != 7 {
		t.Fatalf("expected default 7-day horizon, got %d", len(p.ProjectionByDay))
	}
	if p.DaysUntilLow != 5 {
		t.Errorf("expected balance below 600 on day 5, got %d", p.DaysUntilLow)
	}
	if p.ProjectedBalance != 300 {
		t.Errorf("expected projected balance 300, got %v", p.ProjectedBalance)
	}
	if p.AverageExpenses != 100 || p.AverageIncome != 0 {
		t.Errorf("unexpected averages: income=%v expenses=%v", p.AverageIncome, p.AverageExpenses)
	}
	if p.NetDailyFlow != -100 {
		t.Errorf("expected net daily flow -100, got %v", p.NetDailyFlow)
	}
	if p.Confidence != domain.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", p.Confidence)
	}
	if p.Trend != domain.TrendStable {
		t.Errorf("expected stable trend, got %s", p.Trend)
	}
	if p.UpcomingIncome != nil {
		t.Errorf("expected no upcoming income at confidence 0.3, got %+v", p.UpcomingIncome)
	}

	first := p.ProjectionByDay[0]
	if first.Day != 1 || first.Date.String() != "2025-02-01" || first.Balance != 900 {
		t.Errorf("unexpected first day: %+v", first)
	}
}

func TestProject_NeverLowReportsSentinel(t *testing.T) {
	e := newEngine(t)
	txns := daily("2025-01-11", 21, func(domain.Date) float64 { return -100 }, "groceries")

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance: 50000,
		ReferenceDate:  domain.MustParseDate("2025-01-31"),
		ProjectionDays: 14,
	})

	if p.DaysUntilLow != domain.NotWithinHorizon {
		t.Errorf("expected sentinel, got %d", p.DaysUntilLow)
	}
	if p.RunsLow() {
		t.Error("expected RunsLow to be false")
	}
	if len(p.ProjectionByDay) != 14 {
		t.Errorf("expected 14 projected days, got %d", len(p.ProjectionByDay))
	}
}

func TestProject_EmptyHistory(t *testing.T) {
	e := newEngine(t)

	p := e.Project(nil, forecast.ProjectOptions{
		CurrentBalance: 4000,
		ReferenceDate:  domain.MustParseDate("2025-05-01"),
	})

	if p.NetDailyFlow != 0 || p.AverageIncome != 0 || p.AverageExpenses != 0 {
		t.Errorf("expected zero flows, got %+v", p)
	}
	if p.Confidence != domain.ConfidenceLow {
		t.Errorf("expected low confidence, got %s", p.Confidence)
	}
	if p.DaysUntilLow != 1 {
		t.Errorf("expected balance below default threshold from day 1, got %d", p.DaysUntilLow)
	}
	if p.RecurringExpenses == nil {
		t.Error("expected empty, non-nil recurring expenses")
	}
}

func TestProject_AddsRecurringBillOnDueDate(t *testing.T) {
	e := newEngine(t)
	txns := []domain.Transaction{
		tx(5000, "2025-01-01", ""),
		tx(-200, "2025-01-02", "Coffee"),
		tx(-200, "2025-01-09", "Coffee"),
		tx(-200, "2025-01-16", "Coffee"),
	}

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance: 20000,
		ReferenceDate:  domain.MustParseDate("2025-01-20"),
	})

	if len(p.RecurringExpenses) != 1 {
		t.Fatalf("expected 1 recurring expense, got %+v", p.RecurringExpenses)
	}
	// average daily expense 150, plus the 200 coffee due on 2025-01-23 (day 3)
	for _, day := range p.ProjectionByDay {
		want := 150.0
		if day.Date.String() == "2025-01-23" {
			want = 350
		}
		if day.Expenses != want {
			t.Errorf("day %d (%s): expected expenses %v, got %v", day.Day, day.Date, want, day.Expenses)
		}
	}
}

func TestProject_PredictedIncomeAndUpcomingSummary(t *testing.T) {
	e := newEngine(t)
	txns := []domain.Transaction{
		tx(5000, "2025-01-01", "payout"),
		tx(5000, "2025-01-15", "payout"),
		tx(5000, "2025-01-29", "payout"),
	}

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance: 0,
		ReferenceDate:  domain.MustParseDate("2025-02-05"),
	})

	if p.UpcomingIncome == nil {
		t.Fatal("expected upcoming income")
	}
	if p.UpcomingIncome.Date.String() != "2025-02-12" || p.UpcomingIncome.Amount != 5000 || p.UpcomingIncome.Confidence != 0.95 {
		t.Errorf("unexpected upcoming income: %+v", p.UpcomingIncome)
	}

	last := p.ProjectionByDay[6]
	before := p.ProjectionByDay[5]
	if last.Date.String() != "2025-02-12" {
		t.Fatalf("expected day 7 to be 2025-02-12, got %s", last.Date)
	}
	if last.Income-before.Income != 5000 {
		t.Errorf("expected predicted payout on day 7, got income %v vs %v", last.Income, before.Income)
	}
}

func TestProject_SeasonalOverride(t *testing.T) {
	e := newEngine(t)
	txns := daily("2025-01-01", 35, saturdayHeavy, "spend")

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance: 100000,
		ReferenceDate:  domain.MustParseDate("2025-02-04"),
	})

	if !p.WeeklyPattern.Detected {
		t.Fatal("expected weekly pattern to be detected")
	}
	for _, day := range p.ProjectionByDay {
		want := 100.0
		if day.Date.String() == "2025-02-08" {
			want = 1000
		}
		if day.Expenses != want {
			t.Errorf("%s: expected expenses %v, got %v", day.Date, want, day.Expenses)
		}
	}
}

func TestProject_TrendNudge(t *testing.T) {
	e := newEngine(t)
	// net flow rises by 100 a day: improving
	txns := daily("2025-03-01", 10, func(d domain.Date) float64 {
		return float64(100 * (d.Time().Day()))
	}, "sales")

	p := e.Project(txns, forecast.ProjectOptions{
		CurrentBalance: 0,
		ReferenceDate:  domain.MustParseDate("2025-03-10"),
		ProjectionDays: 2,
	})
	if p.Trend != domain.TrendImproving {
		t.Fatalf("expected improving trend, got %s", p.Trend)
	}

	// Average income 550 a day, nudged +10 then +20. The daily payouts also
	// predict the next one on day 1, adding another 550.
	if got := p.ProjectionByDay[0].Balance; got != 1110 {
		t.Errorf("expected day 1 balance 1110, got %v", got)
	}
	if got := p.ProjectionByDay[1].Balance; got != 1680 {
		t.Errorf("expected day 2 balance 1680, got %v", got)
	}
}

func TestProject_ConfidenceTiers(t *testing.T) {
	e := newEngine(t)
	ref := domain.MustParseDate("2025-06-30")

	steady14 := daily("2025-06-01", 14, func(domain.Date) float64 { return -100 }, "x")
	if got := e.Project(steady14, forecast.ProjectOptions{ReferenceDate: ref}).Confidence; got != domain.ConfidenceMedium {
		t.Errorf("expected medium for 14 steady days, got %s", got)
	}

	noisy21 := daily("2025-06-01", 21, func(d domain.Date) float64 {
		if d.Time().Day()%2 == 0 {
			return -1000
		}
		return -100
	}, "x")
	if got := e.Project(noisy21, forecast.ProjectOptions{ReferenceDate: ref}).Confidence; got != domain.ConfidenceLow {
		t.Errorf("expected low for noisy history, got %s", got)
	}
}
