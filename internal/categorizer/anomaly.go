package categorizer

import (
	"cmp"
	"math"
	"slices"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// DetectAnomalies flags categorized expenses that are large relative to the
// mean absolute spend of their category: above the high multiplier is high
// severity, above the medium multiplier is medium. Most severe first.
func (c *Categorizer) DetectAnomalies(txns []domain.Transaction) []domain.Anomaly {
	type stats struct {
		total float64
		count int
	}
	byCategory := make(map[string]*stats)
	for _, tx := range txns {
		if !tx.IsExpense() || tx.Category == "" {
			continue
		}
		s, ok := byCategory[tx.Category]
		if !ok {
			s = &stats{}
			byCategory[tx.Category] = s
		}
		s.total += math.Abs(tx.Amount)
		s.count++
	}

	anomalies := make([]domain.Anomaly, 0)
	for _, tx := range txns {
		if !tx.IsExpense() || tx.Category == "" {
			continue
		}
		s := byCategory[tx.Category]
		avg := s.total / float64(s.count)
		if avg == 0 {
			continue
		}
		spend := math.Abs(tx.Amount)

		var severity domain.Severity
		switch {
		case spend > avg*c.opts.HighAnomalyMultiplier:
			severity = domain.SeverityHigh
		case spend > avg*c.opts.MediumAnomalyMultiplier:
			severity = domain.SeverityMedium
		default:
			continue
		}
		anomalies = append(anomalies, domain.Anomaly{
			Transaction:     tx,
			Severity:        severity,
			CategoryAverage: round2(avg),
			Ratio:           round2(spend / avg),
		})
	}

	slices.SortStableFunc(anomalies, func(a, b domain.Anomaly) int {
		if d := cmp.Compare(b.Severity.Rank(), a.Severity.Rank()); d != 0 {
			return d
		}
		return cmp.Compare(b.Ratio, a.Ratio)
	})
	return anomalies
}
