package forecast_test

import (
	"math"
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
)

func TestAggregateDaily_Empty(t *testing.T) {
	flows := forecast.AggregateDaily(nil)
	if flows == nil || len(flows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", flows)
	}
}

func TestAggregateDaily_GroupsAndSorts(t *testing.T) {
	txns := []domain.Transaction{
		tx(-300, "2025-01-03", "rent"),
		tx(5000, "2025-01-01", "client"),
		tx(-120.5, "2025-01-01", "lunch"),
		tx(200, "2025-01-03", "refund"),
		tx(-80, "2025-01-02", "cab"),
	}

	flows := forecast.AggregateDaily(txns)
	if len(flows) != 3 {
		t.Fatalf("expected 3 daily flows, got %d", len(flows))
	}

	for i := 1; i < len(flows); i++ {
		if !flows[i-1].Date.Before(flows[i].Date) {
			t.Errorf("flows not strictly ascending at %d: %s then %s", i, flows[i-1].Date, flows[i].Date)
		}
	}
	for _, f := range flows {
		if f.NetFlow != f.Income-f.Expenses {
			t.Errorf("%s: net flow %v != %v - %v", f.Date, f.NetFlow, f.Income, f.Expenses)
		}
	}

	first := flows[0]
	if first.Income != 5000 || first.Expenses != 120.5 {
		t.Errorf("unexpected first day: %+v", first)
	}
	if flows[2].Income != 200 || flows[2].Expenses != 300 || flows[2].NetFlow != -100 {
		t.Errorf("unexpected last day: %+v", flows[2])
	}
}

func TestAggregateDaily_PreservesTotalsRegardlessOfOrder(t *testing.T) {
	txns := []domain.Transaction{
		tx(1000, "2025-02-01", ""),
		tx(-250, "2025-02-01", ""),
		tx(-50, "2025-02-05", ""),
		tx(700, "2025-02-03", ""),
		tx(-1.25, "2025-02-03", ""),
	}
	reversed := make([]domain.Transaction, len(txns))
	for i := range txns {
		reversed[len(txns)-1-i] = txns[i]
	}

	var wantIncome, wantExpenses float64
	for _, x := range txns {
		if x.Amount > 0 {
			wantIncome += x.Amount
		} else {
			wantExpenses += math.Abs(x.Amount)
		}
	}

	for _, input := range [][]domain.Transaction{txns, reversed} {
		var income, expenses float64
		for _, f := range forecast.AggregateDaily(input) {
			income += f.Income
			expenses += f.Expenses
		}
		if income != wantIncome {
			t.Errorf("expected income %v, got %v", wantIncome, income)
		}
		if expenses != wantExpenses {
			t.Errorf("expected expenses %v, got %v", wantExpenses, expenses)
		}
	}
}
