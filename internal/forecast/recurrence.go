package forecast

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// recurrenceKey groups expense occurrences. Holding the parts separately
// keeps "a_b"+"c" and "a"+"b_c" from colliding.
type recurrenceKey struct {
	description string
	category    string
}

func keyOf(tx domain.Transaction) recurrenceKey {
	desc := strings.ToLower(strings.TrimSpace(tx.Description))
	if desc == "" {
		desc = "unknown"
	}
	return recurrenceKey{description: desc, category: tx.Category}
}

// DetectRecurring infers recurring bills from expenses sharing a description
// and category. Groups whose mean interval falls outside every band, or whose
// intervals vary too much, are dropped. Rules come back ordered by next due date.
func (e *Engine) DetectRecurring(txns []domain.Transaction) []domain.RecurringExpense {
	groups := make(map[recurrenceKey][]domain.Transaction)
	var order []recurrenceKey
	for _, tx := range txns {
		if !tx.IsExpense() {
			continue
		}
		k := keyOf(tx)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], tx)
	}

	rules := make([]domain.RecurringExpense, 0)
	for _, k := range order {
		if rule, ok := e.recurringRule(groups[k]); ok {
			rules = append(rules, rule)
		}
	}

	slices.SortStableFunc(rules, func(a, b domain.RecurringExpense) int {
		if c := a.NextDueDate.Compare(b.NextDueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.Description, b.Description)
	})
	return rules
}

func (e *Engine) recurringRule(occurrences []domain.Transaction) (domain.RecurringExpense, bool) {
	if len(occurrences) < 2 {
		return domain.RecurringExpense{}, false
	}

	sorted := slices.Clone(occurrences)
	slices.SortStableFunc(sorted, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	deltas := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		deltas = append(deltas, math.Abs(float64(sorted[i].Date.DaysUntil(sorted[i-1].Date))))
	}

	frequency := roundDays(mean(deltas))
	band, ok := e.bandFor(frequency)
	if !ok {
		return domain.RecurringExpense{}, false
	}
	if populationVariance(deltas) >= float64(frequency)*e.params.RecurrenceVarianceMultiplier {
		return domain.RecurringExpense{}, false
	}

	amounts := make([]float64, len(sorted))
	for i, tx := range sorted {
		amounts[i] = math.Abs(tx.Amount)
	}

	latest := sorted[0]
	description := strings.TrimSpace(latest.Description)
	if description == "" {
		description = "unknown"
	}
	return domain.RecurringExpense{
		Description:   description,
		Category:      latest.Category,
		AverageAmount: roundMoney(mean(amounts)),
		FrequencyDays: frequency,
		Cadence:       band.Cadence,
		NextDueDate:   latest.Date.AddDays(frequency),
		Occurrences:   len(sorted),
	}, true
}

func (e *Engine) bandFor(days int) (Band, bool) {
	for _, b := range e.params.RecurrenceBands {
		if b.Contains(days) {
			return b, true
		}
	}
	return Band{}, false
}
