package forecast

import (
	"math"
	"slices"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// AggregateDaily collapses transactions into one flow per calendar day,
// ascending by date. Days without transactions are not materialized.
func AggregateDaily(txns []domain.Transaction) []domain.DailyFlow {
	byDate := make(map[domain.Date]*domain.DailyFlow)
	for _, tx := range txns {
		flow, ok := byDate[tx.Date]
		if !ok {
			flow = &domain.DailyFlow{Date: tx.Date}
			byDate[tx.Date] = flow
		}
		if tx.Amount > 0 {
			flow.Income += tx.Amount
		} else {
			flow.Expenses += math.Abs(tx.Amount)
		}
		flow.NetFlow = flow.Income - flow.Expenses
	}

	flows := make([]domain.DailyFlow, 0, len(byDate))
	for _, f := range byDate {
		flows = append(flows, *f)
	}
	slices.SortFunc(flows, func(a, b domain.DailyFlow) int {
		return a.Date.Compare(b.Date)
	})
	return flows
}

// netFlows extracts the net-flow series.
func netFlows(flows []domain.DailyFlow) []float64 {
	out := make([]float64, len(flows))
	for i, f := range flows {
		out[i] = f.NetFlow
	}
	return out
}

// lastN returns the trailing n flows (all of them when fewer exist).
func lastN(flows []domain.DailyFlow, n int) []domain.DailyFlow {
	if n >= len(flows) {
		return flows
	}
	return flows[len(flows)-n:]
}
