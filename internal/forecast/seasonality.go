package forecast

import (
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// DetectWeeklyPattern looks for day-of-week spending seasonality. Weekdays
// come from the UTC calendar day of each flow. A weekday with no flows
// contributes an average of 0.
func (e *Engine) DetectWeeklyPattern(flows []domain.DailyFlow) domain.WeeklyPattern {
	var pattern domain.WeeklyPattern
	if len(flows) < e.params.SeasonalityMinDays {
		return pattern
	}

	pattern.AverageExpenses = weekdayAverages(flows)
	pattern.Variance = populationVariance(pattern.AverageExpenses[:])
	pattern.Detected = pattern.Variance > e.params.SeasonalityVarianceThreshold
	return pattern
}

// weekdayAverages is the mean expense per weekday over flows.
func weekdayAverages(flows []domain.DailyFlow) [7]float64 {
	var totals [7]float64
	var counts [7]int
	for _, f := range flows {
		wd := f.Date.Weekday()
		totals[wd] += f.Expenses
		counts[wd]++
	}
	var avgs [7]float64
	for i := range avgs {
		if counts[i] > 0 {
			avgs[i] = totals[i] / float64(counts[i])
		}
	}
	return avgs
}

// weekdayExpense returns the mean expense of flows falling on wd, and false
// when none do.
func weekdayExpense(flows []domain.DailyFlow, wd time.Weekday) (float64, bool) {
	var total float64
	var n int
	for _, f := range flows {
		if f.Date.Weekday() == wd {
			total += f.Expenses
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
