package forecast

import (
	"slices"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// PredictIncome infers the next income date from the spacing of past income.
// With fewer than two income events the prediction falls back to the default
// cycle from referenceDate at a fixed low confidence. Otherwise confidence
// shrinks as the intervals get more irregular, bounded by the configured
// floor and ceiling.
func (e *Engine) PredictIncome(txns []domain.Transaction, referenceDate domain.Date) domain.IncomePrediction {
	var incomes []domain.Transaction
	for _, tx := range txns {
		if tx.IsIncome() {
			incomes = append(incomes, tx)
		}
	}
	slices.SortStableFunc(incomes, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	amounts := make([]float64, len(incomes))
	for i, tx := range incomes {
		amounts[i] = tx.Amount
	}
	avgAmount := mean(amounts)

	if len(incomes) < 2 {
		return domain.IncomePrediction{
			NextDate:        referenceDate.AddDays(e.params.DefaultIncomeCycleDays),
			Confidence:      e.params.InsufficientIncomeConfidence,
			AverageAmount:   avgAmount,
			AverageInterval: float64(e.params.DefaultIncomeCycleDays),
			SampleSize:      len(incomes),
		}
	}

	intervals := make([]float64, 0, len(incomes)-1)
	for i := 1; i < len(incomes); i++ {
		intervals = append(intervals, float64(incomes[i].Date.DaysUntil(incomes[i-1].Date)))
	}
	avgInterval := mean(intervals)
	variance := populationVariance(intervals)

	confidence := clamp(1-variance/e.params.IncomeVarianceScale,
		e.params.IncomeConfidenceFloor, e.params.IncomeConfidenceCeiling)

	return domain.IncomePrediction{
		NextDate:        incomes[0].Date.AddDays(roundDays(avgInterval)),
		Confidence:      roundConfidence(confidence),
		AverageAmount:   avgAmount,
		AverageInterval: avgInterval,
		SampleSize:      len(incomes),
	}
}
