package forecast_test

import (
	"testing"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

func TestDetectRecurring_WeeklyCoffee(t *testing.T) {
	e := newEngine(t)
	txns := []domain.Transaction{
		tx(5000, "2025-01-01", ""),
		tx(-200, "2025-01-02", "Coffee"),
		tx(-200, "2025-01-09", "Coffee"),
		tx(-200, "2025-01-16", "Coffee"),
	}

	rules := e.DetectRecurring(txns)
	if len(rules) != 1 {
		t.Fatalf("expected 1 recurring rule, got %d: %+v", len(rules), rules)
	}
	r := rules[0]
	if r.FrequencyDays != 7 {
		t.Errorf("expected frequency 7, got %d", r.FrequencyDays)
	}
	if r.Cadence != domain.CadenceWeekly {
		t.Errorf("expected weekly cadence, got %s", r.Cadence)
	}
	if r.AverageAmount != 200 {
		t.Errorf("expected amount 200, got %v", r.AverageAmount)
	}
	if got := r.NextDueDate.String(); got != "2025-01-23" {
		t.Errorf("expected next due 2025-01-23, got %s", got)
	}
	if r.Occurrences != 3 {
		t.Errorf("expected 3 occurrences, got %d", r.Occurrences)
	}
}

func TestDetectRecurring_DropsWeakSignals(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		txns []domain.Transaction
	}{
		{
			name: "single occurrence",
			txns: []domain.Transaction{tx(-999, "2025-01-05", "Gym")},
		},
		{
			name: "interval between bands",
			txns: []domain.Transaction{
				tx(-300, "2025-01-01", "Laundry"),
				tx(-300, "2025-01-11", "Laundry"),
				tx(-300, "2025-01-21", "Laundry"),
			},
		},
		{
			name: "high interval variance",
			txns: []domain.Transaction{
				tx(-150, "2025-01-01", "Snacks"),
				tx(-150, "2025-01-02", "Snacks"),
				tx(-150, "2025-01-15", "Snacks"),
			},
		},
		{
			name: "income is never a bill",
			txns: []domain.Transaction{
				tx(2000, "2025-01-01", "Retainer"),
				tx(2000, "2025-01-08", "Retainer"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rules := e.DetectRecurring(tt.txns); len(rules) != 0 {
				t.Errorf("expected no rules, got %+v", rules)
			}
		})
	}
}

func TestDetectRecurring_SortedByNextDueDate(t *testing.T) {
	e := newEngine(t)
	txns := []domain.Transaction{
		{Amount: -15000, Date: domain.MustParseDate("2025-01-01"), Description: "Rent", Category: "Rent & Housing"},
		{Amount: -15000, Date: domain.MustParseDate("2025-01-31"), Description: "Rent", Category: "Rent & Housing"},
		{Amount: -499, Date: domain.MustParseDate("2025-01-10"), Description: "Netflix", Category: "Entertainment"},
		{Amount: -501, Date: domain.MustParseDate("2025-01-24"), Description: "NETFLIX", Category: "Entertainment"},
		tx(-60, "2025-01-20", "Chai"),
		tx(-60, "2025-01-27", "Chai"),
	}

	rules := e.DetectRecurring(txns)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d: %+v", len(rules), rules)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].NextDueDate.Before(rules[i-1].NextDueDate) {
			t.Errorf("rules out of order at %d: %s before %s", i, rules[i].NextDueDate, rules[i-1].NextDueDate)
		}
	}
	if rules[0].Description != "Chai" || rules[0].NextDueDate.String() != "2025-02-03" {
		t.Errorf("expected Chai due 2025-02-03 first, got %+v", rules[0])
	}
	netflix := rules[1]
	if netflix.Cadence != domain.CadenceBiweekly || netflix.AverageAmount != 500 {
		t.Errorf("expected biweekly Netflix at 500, got %+v", netflix)
	}
	if rules[2].Cadence != domain.CadenceMonthly || rules[2].NextDueDate.String() != "2025-03-02" {
		t.Errorf("expected monthly rent due 2025-03-02, got %+v", rules[2])
	}
}

func TestDetectRecurring_KeyDoesNotCollide(t *testing.T) {
	e := newEngine(t)
	// "a_b"+"c" and "a"+"b_c" would share the string key "a_b_c".
	txns := []domain.Transaction{
		{Amount: -100, Date: domain.MustParseDate("2025-01-01"), Description: "a_b", Category: "c"},
		{Amount: -100, Date: domain.MustParseDate("2025-01-08"), Description: "a", Category: "b_c"},
	}
	if rules := e.DetectRecurring(txns); len(rules) != 0 {
		t.Errorf("expected distinct groups with one occurrence each, got %+v", rules)
	}
}
