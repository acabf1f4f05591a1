package forecast_test

import (
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
)

func tx(amount float64, date, description string) domain.Transaction {
	return domain.Transaction{
		Amount:      amount,
		Date:        domain.MustParseDate(date),
		Description: description,
	}
}

// daily returns one transaction per day starting at start.
func daily(start string, days int, amount func(d domain.Date) float64, description string) []domain.Transaction {
	first := domain.MustParseDate(start)
	out := make([]domain.Transaction, 0, days)
	for i := 0; i < days; i++ {
		d := first.AddDays(i)
		out = append(out, domain.Transaction{Amount: amount(d), Date: d, Description: description})
	}
	return out
}

func newEngine(t *testing.T) *forecast.Engine {
	t.Helper()
	e, err := forecast.NewEngine(forecast.DefaultParams())
	if err != nil {
		t.Fatalf("expected valid default params, got %v", err)
	}
	return e
}

func floatPtr(v float64) *float64 { return &v }
